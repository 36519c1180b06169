package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/logging"
)

const serviceName = "authsvc"

// NewLogger builds the process logger from configuration
func NewLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Service: serviceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.ResolvedLogFormat(),
	})
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// at most the configured grace period and closes the store connections.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg)
	ctx = logging.WithContext(ctx, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error("close dependencies", slog.Any("error", err))
		}
	}()

	if cfg.SeedDemoUsers {
		if _, err := SeedDemoUsers(ctx, container.UserRepo, container.PasswordSvc); err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	logger.Info("listening", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("grace_period", cfg.ShutdownGracePeriod))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
