package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseAndRedis(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}

	_, err = LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/promo",
		"REDIS_URL":    "",
	})
	if err == nil {
		t.Fatal("expected error when REDIS_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost:5432/promo",
		"REDIS_URL":            "redis://localhost:6379/0",
		"APP_ENV":              "",
		"PORT":                 "",
		"CATALOG_CACHE_TTL":    "",
		"PROMO_CACHE_TTL":      "",
		"QUOTE_RATE_LIMIT_MAX": "",
		"DB_MIGRATE":           "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("unexpected APP_ENV default %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.HTTPAddr())
	}
	if cfg.CatalogCacheTTL != 60*time.Second {
		t.Fatalf("unexpected catalog cache TTL %v", cfg.CatalogCacheTTL)
	}
	if cfg.PromoCacheTTL != 30*time.Second {
		t.Fatalf("unexpected promo cache TTL %v", cfg.PromoCacheTTL)
	}
	if cfg.QuoteRateLimitMax != 60 {
		t.Fatalf("unexpected rate limit max %d", cfg.QuoteRateLimitMax)
	}
	if cfg.MigrateOnStart {
		t.Fatal("expected migrations disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":            "postgres://localhost:5432/promo",
		"REDIS_URL":               "redis://localhost:6379/0",
		"PORT":                    "9090",
		"DB_MIGRATE":              "true",
		"CORS_ALLOWED_ORIGINS":    "https://a.example, https://b.example",
		"QUOTE_RATE_LIMIT_WINDOW": "30s",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
	if !cfg.MigrateOnStart {
		t.Fatal("expected migrations enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.QuoteRateLimitWindow != 30*time.Second {
		t.Fatalf("unexpected window %v", cfg.QuoteRateLimitWindow)
	}
}
