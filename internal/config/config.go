package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string // empty disables remote sync
	LogLevel    string
	Seed        bool

	// Inference service (any OpenAI-compatible chat completions API)
	InferenceAPIKey  string
	InferenceModel   string
	InferenceBaseURL string
	InferenceTimeout time.Duration

	RemoteWriteTimeout time.Duration
	ProfileCachePath   string

	// Langfuse configuration
	LangfuseBaseURL     string
	LangfusePublicKey   string
	LangfuseSecretKey   string
	LangfuseEnv         string
	LangfusePromptName  string
	LangfusePromptLabel string
	PromptCachePath     string
}

func Load() *Config {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Seed:        getEnv("SEED", "false") == "true",

		InferenceAPIKey:  getEnv("INFERENCE_API_KEY", getEnv("OPENAI_API_KEY", "")),
		InferenceModel:   getEnv("INFERENCE_MODEL", "gpt-4o-mini"),
		InferenceBaseURL: getEnv("INFERENCE_BASE_URL", ""),
		InferenceTimeout: getDuration("INFERENCE_TIMEOUT", 30*time.Second),

		RemoteWriteTimeout: getDuration("REMOTE_WRITE_TIMEOUT", 5*time.Second),
		ProfileCachePath:   getEnv("PROFILE_CACHE_PATH", "./data/athlete_profile.json"),

		LangfuseBaseURL:     getEnv("LANGFUSE_BASE_URL", ""),
		LangfusePublicKey:   getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:   getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseEnv:         getEnv("LANGFUSE_ENV", "development"),
		LangfusePromptName:  getEnv("LANGFUSE_PROMPT_NAME", ""),
		LangfusePromptLabel: getEnv("LANGFUSE_PROMPT_LABEL", "production"),
		PromptCachePath:     getEnv("PROMPT_CACHE_PATH", ""),
	}
}

// RemoteSyncEnabled reports whether a durable store is configured.
func (c *Config) RemoteSyncEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses values like "30s" or "1m". Invalid or non-positive values
// fall back to the default with a warning.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return d
}
