// Package server boots and gracefully stops the HTTP server, owning the
// lifecycle of every external connection.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/internal/kernel"
	"github.com/themelissanyc/melissa/pkg/cache"
	"github.com/themelissanyc/melissa/pkg/database"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests before releasing connections.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}()

	// Redis is an optimisation, not a dependency: listings fall through to
	// Mongo when it is down.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	defer cache.Disconnect()

	storage.Connect()

	if config.Get("LOG_TO_MONGO", "false") == "true" {
		sink := logger.NewMongoHandler(db.Collection("logs"))
		defer sink.Close()
		logger.Use(slog.New(logger.NewMultiHandler(logger.L.Handler(), sink)))
	}

	k := kernel.New(db)
	defer k.Shutdown()

	srv := &http.Server{
		Addr:         ":" + config.AppPort(),
		Handler:      k.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
