// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the assistant needs to start.
type Config struct {
	ListenAddr string

	// LLM provider selection.
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	// PostgresDSN is optional; empty means the in-memory store.
	PostgresDSN string

	SessionCapacity int
	Timezone        *time.Location

	// S3 settings are optional; empty endpoint means in-memory attachments.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// Load reads .env (when present) and the process environment. Only the LLM
// key and model are hard requirements.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:      envOr("LISTEN_ADDR", ":8080"),
		Provider:        envOr("LLM_PROVIDER", "openai"),
		APIKey:          os.Getenv("LLM_API_KEY"),
		Model:           envOr("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:         os.Getenv("LLM_BASE_URL"),
		PostgresDSN:     os.Getenv("DATABASE_URL"),
		SessionCapacity: envInt("SESSION_CAPACITY", 1024),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        os.Getenv("S3_REGION"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        envOr("S3_BUCKET", "convoagent-media"),
		S3UseSSL:        envBool("S3_USE_SSL", false),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config: LLM_API_KEY is required")
	}

	tz := envOr("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Timezone = loc

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
