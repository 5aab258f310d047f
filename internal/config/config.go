// Package config loads service settings from environment variables at
// process start. Tokens and repo coordinates are validated here once and
// threaded into constructors; pipeline logic never reads the environment.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	// Synoptic observation API.
	SynopticToken   string
	SynopticBaseURL string
	FetchTimeout    time.Duration

	// GitHub issue tracker for feedback.
	GitHubToken   string
	GitHubBaseURL string
	RepoOwner     string
	RepoName      string

	// Sessions.
	SessionTTL time.Duration

	// Tracing.
	OTLPEndpoint   string
	TracingEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. The two API tokens and the repo coordinates are required.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parseDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr: envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		SynopticToken:   os.Getenv("SYN_TOKEN"),
		SynopticBaseURL: envOrDefault("SYN_BASE_URL", "https://api.synopticdata.com/v2/stations/timeseries"),
		FetchTimeout:    fetchTimeout,

		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		GitHubBaseURL: envOrDefault("GITHUB_BASE_URL", "https://api.github.com"),
		RepoOwner:     os.Getenv("REPO_OWNER"),
		RepoName:      os.Getenv("REPO_NAME"),

		SessionTTL: sessionTTL,

		OTLPEndpoint:   envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: os.Getenv("OTEL_ENABLED") == "true",
	}

	if cfg.SynopticToken == "" {
		return nil, errors.New("SYN_TOKEN is required")
	}
	if cfg.GitHubToken == "" {
		return nil, errors.New("GITHUB_TOKEN is required")
	}
	if cfg.RepoOwner == "" {
		return nil, errors.New("REPO_OWNER is required")
	}
	if cfg.RepoName == "" {
		return nil, errors.New("REPO_NAME is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
