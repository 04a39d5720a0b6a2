package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bizkash/internal/assistant"
	"bizkash/internal/auth"
	"bizkash/internal/backend"
	"bizkash/internal/capture"
	"bizkash/internal/config"
	apphttp "bizkash/internal/http"
	"bizkash/internal/i18n"
	"bizkash/internal/invoice"
	"bizkash/internal/log"
)

func main() {
	// Load .env for local development, ignore when absent
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	deps := apphttp.Deps{
		Ledger:    be.Ledger,
		Recorder:  be.Recorder,
		Voice:     capture.NewVoiceParser(cfg.VoiceDelay),
		Photo:     capture.NewPhotoParser(cfg.PhotoDelay),
		Manual:    capture.NewManualParser(),
		Assistant: assistant.New(be.Ledger),
		Invoices:  invoice.New(),
		Auth:      auth.NewService(auth.NewStore(cfg.DataDir), cfg.AuthDelay),
		Locale:    i18n.Parse(cfg.ExportLocale),
		Logger:    logger,
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting bizkash server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"locale", cfg.ExportLocale)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
