package config

import (
	"testing"
	"time"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()

	if !cfg.Enabled {
		t.Fatal("cache must default to enabled")
	}
	if !cfg.Methods["GET"] || len(cfg.Methods) != 1 {
		t.Fatalf("default methods = %v, want GET only", cfg.Methods)
	}
	if cfg.TTL != 30*time.Second {
		t.Fatalf("default TTL = %v", cfg.TTL)
	}
	if cfg.KeyStrategy != "route_query" || cfg.Prefix != "vidshare:cache" {
		t.Fatalf("unexpected defaults: strategy=%q prefix=%q", cfg.KeyStrategy, cfg.Prefix)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("default max body = %d", cfg.MaxBodyBytes)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods(" get , HEAD ,,post")
	if len(m) != 3 || !m["GET"] || !m["HEAD"] || !m["POST"] {
		t.Fatalf("parseMethods = %v", m)
	}
}

func TestParseDurFallsBack(t *testing.T) {
	if d := parseDur("nonsense"); d != time.Second {
		t.Fatalf("parseDur fallback = %v", d)
	}
	if d := parseDur("90s"); d != 90*time.Second {
		t.Fatalf("parseDur = %v", d)
	}
}
