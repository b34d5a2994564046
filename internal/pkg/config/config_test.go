package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("expected mongo driver, got %q", cfg.StoreDriver)
	}
	if cfg.LegacyErrors {
		t.Error("expected structured errors by default")
	}
	if cfg.Mongo.Database != "exercise_tracker" {
		t.Errorf("expected database exercise_tracker, got %q", cfg.Mongo.Database)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %v", cfg.Redis.IdempotencyTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Audit.Workers != 4 {
		t.Errorf("expected 4 audit workers, got %d", cfg.Audit.Workers)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "3000",
		"ENV":             "production",
		"LEGACY_ERRORS":   "true",
		"STORE_DRIVER":    "sqlite",
		"SQLITE_PATH":     ":memory:",
		"REDIS_ADDR":      "cache:6379",
		"IDEMPOTENCY_TTL": "90m",
		"AUDIT_WORKERS":   "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" || cfg.IsDevelopment() || !cfg.LegacyErrors {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.SQLite.Path != ":memory:" {
		t.Errorf("expected sqlite :memory:, got %q %q", cfg.StoreDriver, cfg.SQLite.Path)
	}
	if cfg.Redis.IdempotencyTTL != 90*time.Minute {
		t.Errorf("expected 90m ttl, got %v", cfg.Redis.IdempotencyTTL)
	}
	if cfg.Audit.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Audit.Workers)
	}
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "postgres",
	}))
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadWith_RejectsMalformedDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SHUTDOWN_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
