package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/printa-console/internal/config"
	"github.com/georgemunganga/printa-console/internal/gateway"
	"github.com/georgemunganga/printa-console/internal/modules/product"
	"github.com/georgemunganga/printa-console/internal/modules/provider"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Log.Logger(os.Stdout)
	slog.SetDefault(logger)

	endpoints := cfg.Endpoints()
	logger.Info("remote API selected", "primary", endpoints.Primary, "fallback", endpoints.Fallback)

	client := gateway.New(endpoints,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithLogger(logger.With("component", "gateway")),
	)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ── Providers ───────────────────────────────────────────
	providerRepo := provider.NewRemoteRepository(client)
	directory := provider.NewDirectory(providerRepo, cfg.Providers.DirectoryLimit, cfg.Providers.CacheTTL, logger)
	providerService := provider.NewService(providerRepo, directory, logger)
	provider.NewHandler(providerService).RegisterRoutes(router)

	// ── Products ────────────────────────────────────────────
	productRepo := product.NewRemoteRepository(client)
	productService := product.NewService(productRepo, directory,
		product.WithScopedLimit(cfg.Products.ScopedLimit),
		product.WithLogger(logger),
	)
	product.NewHandler(productService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("console listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("shutting down console")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("console exited", "code", exitCode)
	os.Exit(exitCode)
}
