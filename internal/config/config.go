// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all runtime configuration for the jobscout service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	GeocodeAPIKey  string
	GeocodeBaseURL string

	CronSpec string // cron expression for the periodic aggregation trigger

	FeedURL           string
	BoardURL          string
	CompanyConfigPath string // optional JSON file of company scraper rules
	CitiesPath        string // optional JSON file of serving-time city presets

	ExcludeTerms []string // listings containing any of these terms are discarded

	DedupeThreshold float64
}

// Defaults for optional settings.
const (
	DefaultCronSpec        = "0 * * * *" // top of every hour
	DefaultGeocodeBaseURL  = "https://api.opencagedata.com/geocode/v1/json"
	defaultPort            = "8080"
	defaultDedupeThreshold = 0.3
)

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	cronSpec := os.Getenv("AGGREGATE_CRON")
	if cronSpec == "" {
		cronSpec = DefaultCronSpec
	}

	geocodeBase := os.Getenv("GEOCODE_BASE_URL")
	if geocodeBase == "" {
		geocodeBase = DefaultGeocodeBaseURL
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		GeocodeAPIKey:     os.Getenv("GEOCODE_API_KEY"),
		GeocodeBaseURL:    geocodeBase,
		CronSpec:          cronSpec,
		FeedURL:           os.Getenv("FEED_URL"),
		BoardURL:          os.Getenv("BOARD_URL"),
		CompanyConfigPath: os.Getenv("COMPANY_CONFIG_PATH"),
		CitiesPath:        os.Getenv("CITIES_PATH"),
		ExcludeTerms:      splitTerms(os.Getenv("EXCLUDE_TERMS")),
		DedupeThreshold:   defaultDedupeThreshold,
	}, nil
}

// splitTerms parses a comma-separated term list, dropping empties.
func splitTerms(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
