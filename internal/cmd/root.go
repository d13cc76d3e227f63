package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twyst",
	Short: "Twýst - storefront demo backend",
	Long: `Twýst is a client-side storefront demo backend: product catalog, cart,
simulated checkout, member profiles and an AI stylist / virtual fitting
feature backed by the Gemini API.

All state is in-memory and resets on restart; there is no real payment,
inventory or shipping integration.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
