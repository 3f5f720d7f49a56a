package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microblogPosts/cmd/app"
	"microblogPosts/internal/auth"
	"microblogPosts/internal/config"
	handlers "microblogPosts/internal/handler"
	"microblogPosts/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.JWTSecretKey == "" && !cfg.AuthSkipVerify {
		logger.Error("JWT_SECRET_KEY is not set and AUTH_SKIP_VERIFY is off")
		os.Exit(1)
	}
	if cfg.AuthSkipVerify {
		logger.Warn("token signatures are not verified; caller identity is advisory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.App(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := components.Close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	handler := handlers.NewHandlers(components.Services, components.Health, logger)

	// setting up routes
	router := mux.NewRouter()
	handler.Routes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.MetricsMiddleware(router),
		middleware.LoggingMiddleware(logger),
		middleware.AuthMiddleware(auth.NewExtractor(cfg.JWTSecretKey, cfg.AuthSkipVerify), logger),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigin),
		middleware.RecoverMiddleware(logger),
	)

	if cfg.ReconcileInterval > 0 {
		go components.Services.Reconciler.Loop(ctx, cfg.ReconcileInterval)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "driver", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
