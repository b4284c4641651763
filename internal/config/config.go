package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default upstream endpoints. Both are public USGS services.
const (
	DefaultFeedURL   = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"
	DefaultSearchURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// USGS upstream configuration.
	FeedURL     string
	SearchURL   string
	USGSTimeout time.Duration

	// Summarization endpoint configuration.
	SummarizerURL     string
	SummarizerAPIKey  string
	SummarizerEnabled bool
	SummarizerTimeout time.Duration
	SummaryCacheSize  int

	// Optional Kafka fan-out of query results.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	usgsTimeout, err := parseTimeout("USGS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	summarizerTimeout, err := parseTimeout("SUMMARIZER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	summarizerURL := os.Getenv("SUMMARIZER_URL")
	summarizerEnabled := summarizerURL != ""
	if v := os.Getenv("SUMMARIZER_ENABLED"); v != "" {
		summarizerEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedURL:     sharedcfg.EnvOrDefault("USGS_FEED_URL", DefaultFeedURL),
		SearchURL:   sharedcfg.EnvOrDefault("USGS_SEARCH_URL", DefaultSearchURL),
		USGSTimeout: usgsTimeout,

		SummarizerURL:     summarizerURL,
		SummarizerAPIKey:  os.Getenv("SUMMARIZER_API_KEY"),
		SummarizerEnabled: summarizerEnabled,
		SummarizerTimeout: summarizerTimeout,
		SummaryCacheSize:  parseSummaryCacheSize(),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "seismic-query-results"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("USGS_FEED_URL is required")
	}
	if cfg.SearchURL == "" {
		return nil, errors.New("USGS_SEARCH_URL is required")
	}
	if cfg.SummarizerEnabled && cfg.SummarizerURL == "" {
		return nil, errors.New("SUMMARIZER_ENABLED is true but SUMMARIZER_URL is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

func parseTimeout(key, fallback string) (time.Duration, error) {
	raw := sharedcfg.EnvOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseSummaryCacheSize() int {
	if s := os.Getenv("SUMMARY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
