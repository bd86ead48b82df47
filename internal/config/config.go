package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
// Nothing outside this package reads the environment.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatabaseURL string

	// JWT bearer-token verification. Token issuance is handled elsewhere.
	JWTSecret string

	// Notification gateway. An empty API key puts the gateway client in
	// log-only stub mode.
	GatewayBaseURL string
	GatewayAPIKey  string
	GatewayTimeout time.Duration

	// Kafka audit-event publishing (feature-flagged via KAFKA_ENABLED /
	// KAFKA_BROKERS).
	KafkaBrokers    []string
	KafkaAuditTopic string
	KafkaEnabled    bool

	// Seed for the stub weather source; 0 means derive from wall clock.
	WeatherSeed int64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	gatewayTimeout, err := parseDuration("GATEWAY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	weatherSeed, err := parseInt64("WEATHER_SEED", 0)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   envOrDefault("JWT_SECRET", "change-me-in-production"),

		GatewayBaseURL: envOrDefault("GATEWAY_BASE_URL", "https://gateway.aegisflood.in"),
		GatewayAPIKey:  os.Getenv("GATEWAY_API_KEY"),
		GatewayTimeout: gatewayTimeout,

		KafkaBrokers:    brokers,
		KafkaAuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "alert-dispatch-events"),
		KafkaEnabled:    kafkaEnabled,

		WeatherSeed: weatherSeed,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt64(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
