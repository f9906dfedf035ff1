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

	httpadapter "github.com/couchcryptid/storm-event-annotator/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-event-annotator/internal/adapter/kafka"
	"github.com/couchcryptid/storm-event-annotator/internal/config"
	"github.com/couchcryptid/storm-event-annotator/internal/observability"
	"github.com/couchcryptid/storm-event-annotator/internal/pipeline"
	"github.com/couchcryptid/storm-event-annotator/internal/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Kafka sink is feature-flagged via KAFKA_SINK_ENABLED.
	var loader pipeline.BatchLoader
	var writer *kafkaadapter.Writer
	if cfg.KafkaSinkEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	annotator := pipeline.New(loader, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, annotator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run a pass at startup and again on every SIGHUP, re-reading the table
	// and profile each time.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	go func() {
		for {
			if err := annotate(ctx, cfg, annotator); err != nil {
				logger.Error("annotation pass failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-reload:
				logger.Info("reload requested")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func annotate(ctx context.Context, cfg *config.Config, annotator *pipeline.Annotator) error {
	tbl, err := table.Open(cfg.EventTablePath, cfg.EventTableFormat, cfg.EventTableSheet)
	if err != nil {
		return err
	}
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}
	if _, err := annotator.Run(ctx, tbl, profile); err != nil {
		return fmt.Errorf("annotate %s: %w", tbl.Name(), err)
	}
	return nil
}
