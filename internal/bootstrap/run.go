package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// RunConfig contains dependencies for the service runtime.
type RunConfig struct {
	Server *http.Server
	Logger *slog.Logger
	// Cleanup hooks run after the server stops, in order.
	Cleanup []func() error
}

// RunWithShutdown blocks until SIGINT/SIGTERM or server failure, then drains
// the HTTP server and runs cleanup hooks.
func RunWithShutdown(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.Background(), cfg.Server, logger)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	for _, cleanup := range cfg.Cleanup {
		if err := cleanup(); err != nil {
			logger.Error("cleanup failed", "error", err)
		}
	}

	logger.Info("service stopped")
	return nil
}
