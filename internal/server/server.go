// Package server owns the HTTP listen/serve lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/cache"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/gateway"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/queue"
)

// Boot initialises every subsystem the HTTP handler depends on: config, the
// database, Redis (cache and queue driver) and the payment gateway client.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Redis is optional: without it reads are uncached and the queue stays
	// on the in-memory driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, running uncached", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	gateway.Init()
	return nil
}

// Start serves handler on the configured port until SIGINT/SIGTERM, then
// shuts down gracefully. Queue workers run in-process alongside the server.
func Start(handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, 3)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
