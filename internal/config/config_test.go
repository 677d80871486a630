package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("BAZAR_ADDR", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg := FromEnv()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Fatalf("expected 72h token ttl, got %s", cfg.TokenTTL)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BAZAR_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "30")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("SEED_PRODUCTS", "1")

	cfg := FromEnv()
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("expected driver to be lower-cased, got %q", cfg.StoreDriver)
	}
	if cfg.IdempotencyTTL != 30*time.Second {
		t.Fatalf("unexpected idempotency ttl %s", cfg.IdempotencyTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("invalid value should fall back to default, got %s", cfg.ShutdownTimeout)
	}
	if !cfg.SeedProducts {
		t.Fatalf("expected seed products to be enabled")
	}
}
