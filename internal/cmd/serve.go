package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"twyst/internal/ai"
	"twyst/internal/catalog"
	"twyst/internal/config"
	httpapi "twyst/internal/http"
	"twyst/internal/repository"
	"twyst/internal/service"

	_ "twyst/docs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	cat := catalog.Default()

	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	cartsRepo := repository.NewMemoryCarts(store)
	tx := repository.NewMemoryTx(store)

	stylist, err := ai.NewStylist(cmd.Context(), cfg.AI.APIKey, log)
	if err != nil {
		return err
	}

	usersSvc := service.NewUserService(cat, store, cartsRepo)
	cartSvc := service.NewCartService(cat, cartsRepo)
	ordersSvc := service.NewOrderService(cat, cartsRepo, ordersRepo, store, tx, log, cfg.Checkout.Delay)

	srv := httpapi.NewServer(cat, usersSvc, cartSvc, ordersSvc, stylist)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	return nil
}
