package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	APIURL  string // GDPR_API_URL (default "http://localhost:8080/api")
	NATSURL string // GDPR_NATS_URL (optional, empty = no events)

	// Offline article cache (optional, empty = cache disabled)
	CacheDatabaseURL string        // GDPR_CACHE_DATABASE_URL
	CacheMaxAge      time.Duration // GDPR_CACHE_MAX_AGE (default 24h)

	// Dashboard report destination
	ReportS3Bucket   string // GDPR_REPORT_S3_BUCKET (enables S3 when set)
	ReportS3Endpoint string // GDPR_REPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ReportS3Region   string // GDPR_REPORT_S3_REGION (default "us-east-1")
	ReportS3Key      string // GDPR_REPORT_S3_KEY (default "gdpr/report.jsonl")

	// Interactive search
	SearchDebounce time.Duration // GDPR_SEARCH_DEBOUNCE (default 300ms)
}

func Load() (*Config, error) {
	c := &Config{
		APIURL:           envOrDefault("GDPR_API_URL", "http://localhost:8080/api"),
		NATSURL:          os.Getenv("GDPR_NATS_URL"),
		CacheDatabaseURL: os.Getenv("GDPR_CACHE_DATABASE_URL"),
		ReportS3Bucket:   os.Getenv("GDPR_REPORT_S3_BUCKET"),
		ReportS3Endpoint: os.Getenv("GDPR_REPORT_S3_ENDPOINT"),
		ReportS3Region:   envOrDefault("GDPR_REPORT_S3_REGION", "us-east-1"),
		ReportS3Key:      envOrDefault("GDPR_REPORT_S3_KEY", "gdpr/report.jsonl"),
	}

	maxAge, err := parseDuration("GDPR_CACHE_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	c.CacheMaxAge = maxAge

	debounce, err := parseDuration("GDPR_SEARCH_DEBOUNCE", "300ms")
	if err != nil {
		return nil, err
	}
	c.SearchDebounce = debounce

	return c, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
