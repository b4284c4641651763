package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/quake-query-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-query-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-query-service/internal/adapter/summarizer"
	"github.com/couchcryptid/quake-query-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-query-service/internal/config"
	"github.com/couchcryptid/quake-query-service/internal/domain"
	"github.com/couchcryptid/quake-query-service/internal/engine"
	"github.com/couchcryptid/quake-query-service/internal/observability"
)

func main() {
	// Optional .env for local development; env vars win in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	usgsClient := usgs.NewClient(cfg.FeedURL, cfg.SearchURL, cfg.USGSTimeout, metrics, logger)

	// Summarization is feature-flagged via SUMMARIZER_ENABLED / SUMMARIZER_URL.
	var summarizerSvc domain.Summarizer
	if cfg.SummarizerEnabled {
		client := summarizer.NewClient(cfg.SummarizerURL, cfg.SummarizerAPIKey, cfg.SummarizerTimeout, metrics, logger)
		summarizerSvc = summarizer.NewCachedSummarizer(client, cfg.SummaryCacheSize, metrics)
		logger.Info("summarization enabled", "cache_size", cfg.SummaryCacheSize, "timeout", cfg.SummarizerTimeout)
	} else {
		logger.Info("summarization disabled")
	}

	// Optional fan-out of query results to Kafka.
	var publisher engine.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka result fan-out enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka result fan-out disabled")
	}

	eng := engine.New(usgsClient, usgsClient, summarizerSvc, publisher, usgsClient, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
