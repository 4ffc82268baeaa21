package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/example/rider-gps/internal/config"
	httpapi "github.com/example/rider-gps/internal/http"
	"github.com/example/rider-gps/internal/ingest"
	"github.com/example/rider-gps/internal/logging"
	"github.com/example/rider-gps/internal/storage"
	"github.com/example/rider-gps/internal/stream"
)

func main() {
	cfg, err := config.LoadServerConfig()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.RunMigrations && cfg.PGDSN != "" {
		if err := runMigrations(cfg.PGDSN, logger); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	var store storage.LocationStore
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres unreachable", "error", err)
			os.Exit(1)
		}
		store = ps
	} else {
		logger.Warn("PG_DSN not set, using in-memory location store")
		store = storage.NewMemoryStore()
	}

	var publisher stream.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	registry := stream.NewRegistry()
	api := httpapi.NewServer(logger, store, registry, publisher)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("rider-gps listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
}

func runMigrations(dsn string, logger *slog.Logger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := os.ReadFile(filepath.Join("migrations", "001_create_rider_gps_location.sql"))
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return err
	}
	logger.Info("migration applied", "file", "001_create_rider_gps_location.sql")
	return nil
}
