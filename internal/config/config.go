package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode switches resolved once at load time. Call sites branch on these
// fields, never on raw environment state.
const (
	ChannelSNS      = "sns"
	ChannelLocalLog = "local-log"

	ModelBedrock    = "bedrock"
	ModelTruncation = "truncation"

	PublishIsolate = "isolate"
	PublishAbort   = "abort"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	Workers            int
	ExternalTimeout    time.Duration

	// AWS collaborators.
	AWSRegion      string
	SNSTopicARN    string
	BedrockModelID string
	ArchiveBucket  string

	// HTTP collaborators.
	GoogleMapsAPIKey  string
	OpenWeatherAPIKey string
	GeocodeCacheSize  int

	// Resolved mode switches.
	NotificationChannel string // ChannelSNS when a topic ARN is set, else ChannelLocalLog
	ModelProvider       string // ModelBedrock when a model ID is set, else ModelTruncation
	PublishFailureMode  string // PublishIsolate (per-record) or PublishAbort (whole batch)
}

// Load reads configuration from environment variables, applying defaults
// where unset, and resolves the mode switches.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	externalTimeout, err := parseDuration("EXTERNAL_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	batchSize, err := parseBoundedInt("BATCH_SIZE", 50, 1, 1000)
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	workers, err := parseBoundedInt("WORKERS", 4, 1, 64)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseBoundedInt("GEOCODE_CACHE_SIZE", 1000, 1, 100000)
	if err != nil {
		return nil, err
	}

	publishMode := envOrDefault("PUBLISH_FAILURE_MODE", PublishIsolate)
	if publishMode != PublishIsolate && publishMode != PublishAbort {
		return nil, fmt.Errorf("invalid PUBLISH_FAILURE_MODE %q: want %q or %q",
			publishMode, PublishIsolate, PublishAbort)
	}

	cfg := &Config{
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-tweet-records"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "disaster-alerter"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		Workers:            workers,
		ExternalTimeout:    externalTimeout,

		AWSRegion:      envOrDefault("AWS_REGION", "us-east-1"),
		SNSTopicARN:    os.Getenv("SNS_TOPIC_ARN"),
		BedrockModelID: os.Getenv("BEDROCK_MODEL_ID"),
		ArchiveBucket:  os.Getenv("ARCHIVE_BUCKET"),

		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GeocodeCacheSize:  cacheSize,

		PublishFailureMode: publishMode,
	}

	cfg.NotificationChannel = ChannelLocalLog
	if cfg.SNSTopicARN != "" {
		cfg.NotificationChannel = ChannelSNS
	}
	cfg.ModelProvider = ModelTruncation
	if cfg.BedrockModelID != "" {
		cfg.ModelProvider = ModelBedrock
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, fmt.Errorf("KAFKA_SOURCE_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration", key, raw)
	}
	return d, nil
}

func parseBoundedInt(key string, fallback, min, max int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s %q: want an integer in [%d, %d]", key, raw, min, max)
	}
	return n, nil
}
