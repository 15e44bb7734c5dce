package config

import (
	"testing"
	"time"
)

// allEnvVars lists every env var Load reads, cleared between tests.
var allEnvVars = []string{
	"GDPR_API_URL", "GDPR_NATS_URL",
	"GDPR_CACHE_DATABASE_URL", "GDPR_CACHE_MAX_AGE",
	"GDPR_REPORT_S3_BUCKET", "GDPR_REPORT_S3_ENDPOINT",
	"GDPR_REPORT_S3_REGION", "GDPR_REPORT_S3_KEY",
	"GDPR_SEARCH_DEBOUNCE",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.NATSURL != "" {
		t.Errorf("NATSURL = %q, want empty", cfg.NATSURL)
	}
	if cfg.CacheDatabaseURL != "" {
		t.Errorf("CacheDatabaseURL = %q, want empty", cfg.CacheDatabaseURL)
	}
	if cfg.CacheMaxAge != 24*time.Hour {
		t.Errorf("CacheMaxAge = %v, want 24h", cfg.CacheMaxAge)
	}
	if cfg.ReportS3Region != "us-east-1" {
		t.Errorf("ReportS3Region = %q", cfg.ReportS3Region)
	}
	if cfg.ReportS3Key != "gdpr/report.jsonl" {
		t.Errorf("ReportS3Key = %q", cfg.ReportS3Key)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("SearchDebounce = %v, want 300ms", cfg.SearchDebounce)
	}
}

func TestLoadCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("GDPR_API_URL", "https://gdpr.example.com/api")
	t.Setenv("GDPR_NATS_URL", "nats://localhost:4222")
	t.Setenv("GDPR_CACHE_DATABASE_URL", "postgres://localhost/gdpr_cache")
	t.Setenv("GDPR_CACHE_MAX_AGE", "72h")
	t.Setenv("GDPR_REPORT_S3_BUCKET", "compliance-reports")
	t.Setenv("GDPR_REPORT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("GDPR_REPORT_S3_REGION", "eu-west-1")
	t.Setenv("GDPR_REPORT_S3_KEY", "custom/report.jsonl")
	t.Setenv("GDPR_SEARCH_DEBOUNCE", "150ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://gdpr.example.com/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.CacheDatabaseURL != "postgres://localhost/gdpr_cache" {
		t.Errorf("CacheDatabaseURL = %q", cfg.CacheDatabaseURL)
	}
	if cfg.CacheMaxAge != 72*time.Hour {
		t.Errorf("CacheMaxAge = %v", cfg.CacheMaxAge)
	}
	if cfg.ReportS3Bucket != "compliance-reports" {
		t.Errorf("ReportS3Bucket = %q", cfg.ReportS3Bucket)
	}
	if cfg.ReportS3Endpoint != "http://minio:9000" {
		t.Errorf("ReportS3Endpoint = %q", cfg.ReportS3Endpoint)
	}
	if cfg.ReportS3Region != "eu-west-1" {
		t.Errorf("ReportS3Region = %q", cfg.ReportS3Region)
	}
	if cfg.ReportS3Key != "custom/report.jsonl" {
		t.Errorf("ReportS3Key = %q", cfg.ReportS3Key)
	}
	if cfg.SearchDebounce != 150*time.Millisecond {
		t.Errorf("SearchDebounce = %v", cfg.SearchDebounce)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("GDPR_CACHE_MAX_AGE", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GDPR_CACHE_MAX_AGE")
	}

	clearAllEnv(t)
	t.Setenv("GDPR_SEARCH_DEBOUNCE", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GDPR_SEARCH_DEBOUNCE")
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
