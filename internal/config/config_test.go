package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if !cfg.UseMemoryRepositories() {
		t.Fatalf("expected memory repositories when DB_URL is empty")
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if cfg.SettleWorkers != 8 {
		t.Fatalf("unexpected SettleWorkers: %d", cfg.SettleWorkers)
	}
	if cfg.JWTSecret != "dev-secret" {
		t.Fatalf("expected dev JWT secret fallback, got %q", cfg.JWTSecret)
	}
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing JWT_SECRET in prod")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("INTERNAL_JOB_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing INTERNAL_JOB_TOKEN in prod")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "job-token" {
		t.Fatalf("unexpected InternalJobToken: %q", cfg.InternalJobToken)
	}
}

func TestLoad_FeedRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("FEED_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FEED_ENABLED=true without FEED_TOKEN")
	}
}

func TestLoad_FeedConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("FEED_TOKEN", "token-123")
	t.Setenv("FEED_BASE_URL", "https://feed.example.com/v4")
	t.Setenv("FEED_COMPETITION", "EC")
	t.Setenv("FEED_TIMEOUT", "5s")
	t.Setenv("FEED_MAX_RETRIES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.FeedEnabled {
		t.Fatalf("expected FeedEnabled=true")
	}
	if cfg.FeedBaseURL != "https://feed.example.com/v4" {
		t.Fatalf("unexpected FeedBaseURL: %q", cfg.FeedBaseURL)
	}
	if cfg.FeedCompetition != "EC" {
		t.Fatalf("unexpected FeedCompetition: %q", cfg.FeedCompetition)
	}
	if cfg.FeedTimeout != 5*time.Second {
		t.Fatalf("unexpected FeedTimeout: %s", cfg.FeedTimeout)
	}
	if cfg.FeedMaxRetries != 2 {
		t.Fatalf("unexpected FeedMaxRetries: %d", cfg.FeedMaxRetries)
	}
}

func TestLoad_CacheTTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CACHE_TTL=0s")
	}
}

func TestLoad_CORSAllowedOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("expected trimmed origin, got %q", cfg.CORSAllowedOrigins[1])
	}
}

func TestLoad_PyroscopeRequiresAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}
