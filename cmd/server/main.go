package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/config"
	"github.com/mmynk/inkwell/internal/middleware"
	"github.com/mmynk/inkwell/internal/service"
	"github.com/mmynk/inkwell/internal/storage/backend"
	"github.com/mmynk/inkwell/internal/views"
	"github.com/mmynk/inkwell/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := backend.Options{Driver: cfg.DBDriver, Path: cfg.DBPath, DatabaseURL: cfg.DatabaseURL}
	store, err := backend.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver, "database", backend.Describe(opts))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)
	handler := service.NewHandler(service.Dependencies{
		Store:          store,
		Renderer:       views.NewHTMLRenderer(logger),
		Authenticator:  auth.NewPasswordAuthenticator(store),
		Sessions:       middleware.NewSessions(jwtManager, store, cfg.SecureCookies, logger),
		PageSize:       cfg.PageSize,
		Logger:         logger,
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Addr, "page_size", cfg.PageSize)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
