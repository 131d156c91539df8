package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d; want 8", cfg.Workers)
	}
	if cfg.Threshold != 5 {
		t.Errorf("Threshold = %d; want 5", cfg.Threshold)
	}
	if cfg.Algorithm != "ahash" {
		t.Errorf("Algorithm = %s; want ahash", cfg.Algorithm)
	}
	if len(cfg.Extensions) == 0 {
		t.Error("Extensions should not be empty")
	}

	seen := map[string]bool{}
	for _, e := range cfg.Extensions {
		seen[e] = true
	}
	for _, want := range []string{".jpg", ".jpeg", ".png"} {
		if !seen[want] {
			t.Errorf("Extensions missing %s", want)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DUPESCAN_WORKERS", "3")
	t.Setenv("DUPESCAN_THRESHOLD", "0")
	t.Setenv("DUPESCAN_ALGORITHM", "phash")
	t.Setenv("DUPESCAN_CACHE", "/tmp/dupescan.db")

	cfg := Load()
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d; want 3", cfg.Workers)
	}
	if cfg.Threshold != 0 {
		t.Errorf("Threshold = %d; want 0 (zero is a valid threshold)", cfg.Threshold)
	}
	if cfg.Algorithm != "phash" {
		t.Errorf("Algorithm = %s; want phash", cfg.Algorithm)
	}
	if cfg.CachePath != "/tmp/dupescan.db" {
		t.Errorf("CachePath = %s; want /tmp/dupescan.db", cfg.CachePath)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("DUPESCAN_WORKERS", "not a number")
	t.Setenv("DUPESCAN_THRESHOLD", "-4")

	cfg := Load()
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d; want default 8 for invalid input", cfg.Workers)
	}
	if cfg.Threshold != 5 {
		t.Errorf("Threshold = %d; want default 5 for negative input", cfg.Threshold)
	}
}
