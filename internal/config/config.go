// Package config provides configuration for the call simulator.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabasePath string

	// Response generator
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from a .env file (if present) and the environment.
func Load() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:     getEnvInt("HTTP_PORT", 8080),
		DatabasePath: getEnv("DATABASE_PATH", "callsim.db"),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.groq.com/openai"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMModel:     getEnv("LLM_MODEL", "mixtral-8x7b-32768"),
		LLMTimeout:   time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
