package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/rahats/school/internal/app"
	"github.com/rahats/school/internal/config"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 15 * time.Second

// serverLifecycle is implemented by the API and metrics servers.
type serverLifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts the API and metrics servers and blocks until SIGINT/SIGTERM or
// until either server fails. It refuses to start, before anything listens, when
// the configuration or the key material is invalid.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	logger.Info("starting school api", slog.String("version", version))

	if _, err := container.Secrets(); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	servers := map[string]serverLifecycle{"api server": server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers["metrics server"] = metricsServer
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, servers, logger)
}

// serve runs every server until ctx ends or one of them fails, then shuts all of
// them down. The first start failure is returned together with shutdown errors.
func serve(ctx context.Context, servers map[string]serverLifecycle, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		g.Go(func() error {
			if err := srv.Start(gctx); err != nil {
				return fmt.Errorf("%s error: %w", name, err)
			}
			return nil
		})
	}

	var shutdownErrs []error
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server failed, shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for name, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				shutdownErrs = append(shutdownErrs, fmt.Errorf("%s shutdown: %w", name, err))
			}
		}
		return nil
	})

	err := g.Wait()
	return errors.Join(append([]error{err}, shutdownErrs...)...)
}
