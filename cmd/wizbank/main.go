package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/aaleksandraa/wizBank/internal/bankrules"
	"github.com/aaleksandraa/wizBank/internal/config"
	"github.com/aaleksandraa/wizBank/internal/database"
	"github.com/aaleksandraa/wizBank/internal/extract"
	"github.com/aaleksandraa/wizBank/internal/license"
	"github.com/aaleksandraa/wizBank/internal/mailfetch"
	"github.com/aaleksandraa/wizBank/internal/orchestrator"
	"github.com/aaleksandraa/wizBank/internal/pdftext"
	"github.com/aaleksandraa/wizBank/internal/session"
	"github.com/aaleksandraa/wizBank/internal/vault"
	"github.com/aaleksandraa/wizBank/pkg/models"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting statement ingestion worker")

	// Connect to database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	defaults := database.RunSettings{
		LookbackDays: cfg.LookbackDays,
		UnreadOnly:   cfg.UnreadOnly,
		MarkAsRead:   cfg.MarkAsRead,
	}
	if err := db.SeedRunSettings(ctx, defaults); err != nil {
		logger.Error("failed to seed settings", "error", err)
		os.Exit(1)
	}

	// License gate: no ingestion without a valid license (fail-closed)
	gate, err := license.New(db, logger)
	if err != nil {
		logger.Error("failed to initialize license gate", "error", err)
		os.Exit(1)
	}
	if err := gate.Validate(ctx); err != nil {
		logger.Error("license validation failed, refusing to start", "error", err)
		os.Exit(1)
	}

	// Create components
	secretVault := vault.New(cfg.EncryptionKey, cfg.Passphrase)
	if !secretVault.Enabled() {
		logger.Warn("no encryption key configured, secrets are stored in plain text")
	}
	dialer := mailfetch.NewDialer(secretVault, cfg.IMAPDialTimeout, logger)
	engine := extract.NewEngine(bankrules.NewRegistry())
	ledger := session.NewLedger(db, logger)

	orch := orchestrator.New(orchestrator.Deps{
		DB:        db,
		Ledger:    ledger,
		Engine:    engine,
		Dialer:    orchestrator.NewIMAPDialer(dialer),
		Converter: pdftext.NewConverter(),
		Defaults:  defaults,
		Logger:    logger,
	})

	final, err := orch.Run(ctx)
	if err != nil {
		logger.Error("ingestion run failed", "error", err)
	}
	if final != nil {
		logger.Info("ingestion run finished",
			"session_id", final.SessionID,
			"status", final.Status,
			"downloaded", final.TotalDownloaded,
			"errors", final.TotalErrors,
			"skipped", final.TotalSkipped,
		)
		if final.Status != models.SessionCompleted {
			os.Exit(1)
		}
	} else if err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
