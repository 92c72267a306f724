package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment variables for the service.
type Config struct {
	Port          string        // Service port (default: 8080)
	JWTSecret     string        // Secret for session tokens
	AdminUsername string        // Back-office credentials
	AdminPassword string        //
	CronSecret    string        // Bearer secret for the alert digest trigger
	SiteURL       string        // Public base URL used in digest mails
	SheetsURL     string        // Source spreadsheet values endpoint
	ScraperURL    string        // Extraction service endpoint
	RedisURL      string        // Optional; empty disables caching
	ImportDelay   time.Duration // Pause between import queue items
	CookieSecure  bool          // Mark session cookies Secure
}

// LoadConfig loads environment variables into Config and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CronSecret:    os.Getenv("CRON_SECRET"),
		SiteURL:       os.Getenv("SITE_URL"),
		SheetsURL:     os.Getenv("SHEETS_URL"),
		ScraperURL:    os.Getenv("SCRAPER_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:3000"
	}

	cfg.ImportDelay = 500 * time.Millisecond
	if raw := os.Getenv("IMPORT_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("IMPORT_DELAY_MS must be a non-negative integer")
		}
		cfg.ImportDelay = time.Duration(ms) * time.Millisecond
	}

	cfg.CookieSecure = os.Getenv("COOKIE_SECURE") != "false"

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.SheetsURL == "" {
		return nil, fmt.Errorf("SHEETS_URL is required")
	}
	if cfg.ScraperURL == "" {
		return nil, fmt.Errorf("SCRAPER_URL is required")
	}

	return cfg, nil
}
