// Package config loads runtime settings from the environment and an optional .env file
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Client  ClientConfig
	Server  ServerConfig
	Breaker BreakerConfig
	Logger  LoggerConfig
}

// ClientConfig configures the connection to the remote ledger service
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServerConfig configures the reference ledger server
type ServerConfig struct {
	Addr   string
	DBPath string
}

// BreakerConfig configures fail-fast behaviour of the ledger client
type BreakerConfig struct {
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	// .env is optional; plain environment variables work on their own
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	return &Config{
		Client: ClientConfig{
			BaseURL: getEnv("LEDGER_API_URL", "http://localhost:8080"),
			Timeout: time.Duration(getEnvInt("LEDGER_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Server: ServerConfig{
			Addr:   getEnv("LEDGER_ADDR", ":8080"),
			DBPath: getEnv("LEDGER_DB_PATH", "./data"),
		},
		Breaker: BreakerConfig{
			MaxConsecutiveFailures: uint32(getEnvInt("LEDGER_BREAKER_MAX_FAILURES", 5)),
			OpenTimeout:            time.Duration(getEnvInt("LEDGER_BREAKER_OPEN_SECONDS", 30)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
