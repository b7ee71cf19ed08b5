// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds every knob the server reads from the environment.
type Config struct {
	// MongoURL is the MongoDB connection string.
	MongoURL string
	// QdrantHost and QdrantPort locate the Qdrant gRPC endpoint.
	QdrantHost string
	QdrantPort int
	// QdrantAPIKey is optional; empty for unauthenticated local instances.
	QdrantAPIKey string

	// ChatModel is the OpenAI model used for enrichment and summaries.
	ChatModel string
	// ChatTimeout bounds each chat completion call.
	ChatTimeout time.Duration
	// ExtractTimeout bounds each recipe page fetch.
	ExtractTimeout time.Duration

	// Port is the HTTP listen port for /mcp and /health.
	Port string
	// ServerMode selects HTTP transport when true, stdio when false.
	ServerMode bool
}

// ErrMissingAPIKey indicates OPENAI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

// Load reads configuration from the environment, applying defaults for
// everything except the OpenAI API key.
func Load() (*Config, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &Config{
		MongoURL:       getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		QdrantHost:     getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:     getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey:   os.Getenv("QDRANT_API_KEY"),
		ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		ChatTimeout:    getEnvDuration("OPENAI_CHAT_TIMEOUT", 30*time.Second),
		ExtractTimeout: getEnvDuration("EXTRACT_TIMEOUT", 10*time.Second),
		Port:           getEnv("PORT", "8080"),
		ServerMode:     getEnv("SERVER_MODE", "false") == "true",
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
