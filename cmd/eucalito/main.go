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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"eucalito/internal/amqp"
	"eucalito/internal/config"
	"eucalito/internal/extract"
	apphttp "eucalito/internal/http"
	applog "eucalito/internal/log"
	"eucalito/internal/ports"
	"eucalito/internal/rates"
	"eucalito/internal/services"
	"eucalito/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.WithComponent(applog.ComponentStorage).Error("Failed to initialize SQLite repository",
			"error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	rateClient := rates.NewClient()
	enricher := services.NewEnricher(rateClient)

	// The event broker is optional: without it the sync worker catches
	// up from the unsynced queue in sqlite.
	var publisher ports.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WithComponent(applog.ComponentAMQP).Warn("AMQP unavailable, running without events", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.WithComponent(applog.ComponentAMQP).Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	}

	var extractor ports.Extractor
	if cfg.GeminiAPIKey != "" {
		gemini, err := extract.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, rateClient)
		if err != nil {
			logger.WithComponent(applog.ComponentExtract).Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		extractor = gemini
		logger.WithComponent(applog.ComponentExtract).Info("Gemini extraction enabled")
	} else {
		logger.Info("Extraction disabled - no GEMINI_API_KEY provided")
	}

	svc := services.NewLedgerService(repo, repo, repo, enricher, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, svc, extractor, cfg.SnapshotCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Drop the cached snapshot whenever the repository reports a write,
	// wherever it came from.
	changes, unsubscribe := repo.Subscribe()
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				srv.InvalidateSnapshot()
			}
		}
	})

	g.Go(func() error {
		logger.Info("Starting eucalito server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		unsubscribe()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
