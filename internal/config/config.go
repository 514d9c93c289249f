package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string

	RazorpayKeyID string

	CachePath    string
	CallbackAddr string

	LogLevel     string
	PollInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		BackendURL:    EnvDefault("BACKEND_URL", "http://localhost:5000"),
		RazorpayKeyID: os.Getenv("RAZORPAY_KEY_ID"),
		CachePath:     EnvDefault("CACHE_PATH", "shopsync_cache.db"),
		CallbackAddr:  EnvDefault("CALLBACK_ADDR", ":8089"),
		LogLevel:      EnvDefault("LOG_LEVEL", "info"),
		PollInterval:  time.Duration(EnvIntDefault("POLL_INTERVAL_SECONDS", 30)) * time.Second,
	}

	return cfg, nil
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
