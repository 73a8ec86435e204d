package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/server"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// awaitShutdown blocks until SIGINT/SIGTERM, drains in-flight requests and
// releases the database and redis connections.
func awaitShutdown(srv *server.Server, log *zap.Logger, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutdown signal received, draining requests")
	stop() // a second Ctrl+C kills the process

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}

	close(done)
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.Int("cart_resolve_concurrency", cfg.Cart.ResolveConcurrency),
	)

	dbService, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
			zap.Error(err),
		)
	}
	log.Info("Database health check", zap.Any("health", dbService.Health()))

	if err := database.RunMigrations(dbService.DB(), log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, dbService)

	done := make(chan struct{})
	go awaitShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
