package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"health-chatbot/internal/app"
	"health-chatbot/internal/config"
)

func main() {
	// Load configuration: defaults, optional file named by HEALTHBOT_CONFIG,
	// then HEALTHBOT_* environment variables.
	v := viper.New()
	if err := config.Init(v, os.Getenv("HEALTHBOT_CONFIG")); err != nil {
		fatal("failed to read configuration", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fatal("invalid configuration", err)
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Knowledge base, matcher, history store and HTTP server.
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fatal("failed to start", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		a.Close()
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
