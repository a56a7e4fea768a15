package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/api"
	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/config"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/service"
	"github.com/youvandra/aegis-protocol/internal/supabase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := service.Initialize(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	feed := startRelayFeed(ctx, cfg)
	if feed != nil {
		defer feed.Stop()
	}

	handler := api.NewHandler(services)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zap.L().Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("Graceful shutdown incomplete", zap.Error(err))
	}
	zap.L().Info("Server stopped")
}

// startRelayFeed subscribes to relay row changes when the hosted backend is
// in use, so status transitions land in the server log as they happen.
func startRelayFeed(ctx context.Context, cfg *models.Config) *supabase.RelayFeed {
	if cfg.Store.Backend != models.StoreBackendSupabase {
		return nil
	}

	feed := supabase.NewRelayFeed(cfg.Supabase, func(event supabase.RelayEvent) {
		zap.L().Info("Relay change observed",
			zap.String("kind", event.Kind),
			zap.String("relay_id", event.Relay.Id),
			zap.String("status", event.Relay.Status))
	})
	if err := feed.Start(ctx); err != nil {
		zap.L().Warn("Relay feed unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return feed
}
