package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultIdempotencyKeyTTL = 24 * time.Hour
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	ShutdownTimeout   time.Duration
	ProblemBaseURI    string
	IdempotencyKeyTTL time.Duration
}

// LoadConfig reads an optional .env file (ENV_FILE, default ".env"), then
// environment variables, applies defaults, and validates basic constraints.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	envFile := envDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		ShutdownTimeout:   defaultShutdownTimeout,
		ProblemBaseURI:    strings.TrimSpace(os.Getenv("PROBLEM_BASE_URI")),
		IdempotencyKeyTTL: defaultIdempotencyKeyTTL,
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_KEY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("IDEMPOTENCY_KEY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyKeyTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
