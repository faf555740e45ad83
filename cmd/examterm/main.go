package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/cli"
	"github.com/examportal/examterm/internal/config"
	"github.com/examportal/examterm/internal/journal"
	"github.com/examportal/examterm/internal/logger"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("portal", cfg.PortalURL).
		Str("log_level", cfg.LogLevel).
		Msg("Starting examterm")

	// ─── Initialize API Client ─────────────────────────────────────────
	client := api.New(cfg.PortalURL, &http.Client{Timeout: cfg.HTTPTimeout}, log)

	// ─── Open Attempt Journal ──────────────────────────────────────────
	// The journal is best effort. The client stays usable without local
	// history.
	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.JournalPath).Msg("Journal unavailable")
		jnl = nil
	} else {
		defer jnl.Close()
	}

	// ─── Run Interactive Loop ──────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.New(client, cfg, jnl, log)
	if err := app.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Client error")
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
