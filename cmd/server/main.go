// Package main is the entry point for the PullQuest dashboard server.
//
// main stays minimal: read the configuration, build the logger, hand both
// to internal/server and block until shutdown. All wiring lives in
// server.New.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/pullquest-dashboard/internal/config"
	"github.com/sakif/pullquest-dashboard/internal/server"
)

func main() {
	// Until the configuration is read, log at info.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate has already rejected unknown levels.
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		logger.Warn("GitHub OAuth credentials not set; login will fail at the callback")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
