package config_test

import (
	"testing"

	"github.com/richrz/JobScout-sub000/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/jobscout")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	if _, err := config.Load(); err == nil {
		t.Error("Load() with no DATABASE_URL should return an error")
	}
}

func TestLoad_MissingRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobscout")
	t.Setenv("REDIS_URL", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load() with no REDIS_URL should return an error")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("AGGREGATE_CRON", "")
	t.Setenv("GEOCODE_BASE_URL", "")
	t.Setenv("EXCLUDE_TERMS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.CronSpec != config.DefaultCronSpec {
		t.Errorf("CronSpec = %q, want %q", cfg.CronSpec, config.DefaultCronSpec)
	}
	if cfg.GeocodeBaseURL != config.DefaultGeocodeBaseURL {
		t.Errorf("GeocodeBaseURL = %q, want %q", cfg.GeocodeBaseURL, config.DefaultGeocodeBaseURL)
	}
	if len(cfg.ExcludeTerms) != 0 {
		t.Errorf("ExcludeTerms = %v, want empty", cfg.ExcludeTerms)
	}
}

func TestLoad_ExcludeTerms(t *testing.T) {
	setRequired(t)
	t.Setenv("EXCLUDE_TERMS", "crypto, unpaid ,,mlm")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := []string{"crypto", "unpaid", "mlm"}
	if len(cfg.ExcludeTerms) != len(want) {
		t.Fatalf("ExcludeTerms = %v, want %v", cfg.ExcludeTerms, want)
	}
	for i, w := range want {
		if cfg.ExcludeTerms[i] != w {
			t.Errorf("ExcludeTerms[%d] = %q, want %q", i, cfg.ExcludeTerms[i], w)
		}
	}
}

func TestLoad_CronOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("AGGREGATE_CRON", "*/30 * * * *")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.CronSpec != "*/30 * * * *" {
		t.Errorf("CronSpec = %q, want override to win", cfg.CronSpec)
	}
}
