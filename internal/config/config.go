// Package config reads runtime settings from the environment. A .env file
// in the working directory is loaded first when present, so local
// development does not need exported variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	BaseURL       string
	LogLevel      string
	PostmarkToken string
	FromEmail     string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("RSVP_PORT", "8080"),
		DBPath:        getenv("RSVP_DB_PATH", "rsvp.db"),
		BaseURL:       os.Getenv("RSVP_BASE_URL"),
		LogLevel:      getenv("RSVP_LOG_LEVEL", "info"),
		PostmarkToken: os.Getenv("RSVP_POSTMARK_TOKEN"),
		FromEmail:     os.Getenv("RSVP_FROM_EMAIL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}
	return cfg
}
