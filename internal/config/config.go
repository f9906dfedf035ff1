package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	EventTablePath   string
	EventTableFormat string
	EventTableSheet  string
	ProfilePath      string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka annotation sink.
	KafkaBrokers     []string
	KafkaSinkTopic   string
	KafkaSinkEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sinkEnabled, err := parseBool("KAFKA_SINK_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EventTablePath:   os.Getenv("EVENT_TABLE_PATH"),
		EventTableFormat: os.Getenv("EVENT_TABLE_FORMAT"),
		EventTableSheet:  os.Getenv("EVENT_TABLE_SHEET"),
		ProfilePath:      os.Getenv("MATCH_PROFILE_PATH"),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "event-annotations"),
		KafkaSinkEnabled: sinkEnabled,
	}

	if cfg.EventTablePath == "" {
		return nil, errors.New("EVENT_TABLE_PATH is required")
	}
	if cfg.ProfilePath == "" {
		return nil, errors.New("MATCH_PROFILE_PATH is required")
	}
	switch cfg.EventTableFormat {
	case "", "csv", "xlsx":
	default:
		return nil, fmt.Errorf("invalid EVENT_TABLE_FORMAT %q: want csv or xlsx", cfg.EventTableFormat)
	}
	if cfg.KafkaSinkEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_SINK_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_SINK_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}
