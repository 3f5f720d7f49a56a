package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microblogPosts/cmd/app"
	"microblogPosts/internal/config"
)

// reconcile re-applies every live post's owner back-reference once and prints the report.
func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.App(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	report, runErr := components.Services.Reconciler.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := components.Close(closeCtx); err != nil {
		logger.Error("failed to close store", "error", err)
	}
	cancel()

	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Error("failed to write report", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("reconciliation failed", "error", runErr)
		os.Exit(1)
	}
}
