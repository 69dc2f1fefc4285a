package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.HoldTTL != 15*time.Minute {
		t.Fatalf("expected default hold TTL 15m, got %s", cfg.HoldTTL)
	}
	if !cfg.IsDev() {
		t.Fatal("expected development to be dev")
	}
}

func TestLoadHoldTTLOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HOLD_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HoldTTL != 5*time.Minute {
		t.Fatalf("expected 5m hold TTL, got %s", cfg.HoldTTL)
	}

	t.Setenv("HOLD_TTL", "")
	t.Setenv("HOLD_TTL_SECONDS", "120")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HoldTTL != 2*time.Minute {
		t.Fatalf("expected 120s hold TTL, got %s", cfg.HoldTTL)
	}
}

func TestLoadRequiresStoresOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing in production")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/playgrid")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when REDIS_URL is missing in production")
	}
}

func TestAddress(t *testing.T) {
	c := Config{Port: "9000"}
	if c.Address() != ":9000" {
		t.Fatalf("expected :9000, got %s", c.Address())
	}
	c.Port = ":9000"
	if c.Address() != ":9000" {
		t.Fatalf("expected :9000 unchanged, got %s", c.Address())
	}
}
