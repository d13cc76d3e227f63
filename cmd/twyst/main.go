package main

import "twyst/internal/cmd"

// @title Twýst Storefront API
// @version 1.0
// @description Demo storefront backend: catalog, cart, simulated checkout, member profiles and AI stylist.
// @BasePath /api/v1
func main() {
	cmd.Execute()
}
