package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
addr = "127.0.0.1:7777"
admin_addr = "127.0.0.1:7778"
read_timeout = "30s"
write_timeout = "5s"
max_value_bytes = 2048
max_string_bytes = 1024
	`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:7777" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.AdminListenAddr != "127.0.0.1:7778" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminListenAddr)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 5*time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.WriteTimeout)
	}
	if cfg.Limits.MaxValueBytes != 2048 {
		t.Fatalf("unexpected value limit: %d", cfg.Limits.MaxValueBytes)
	}
	if cfg.Limits.MaxStringBytes != 1024 {
		t.Fatalf("unexpected string limit: %d", cfg.Limits.MaxStringBytes)
	}
}

func TestLoadServiceConfigKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeConfig(t, `
admin_addr = "127.0.0.1:7778"
	`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:5555" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.Limits.MaxValueBytes == 0 {
		t.Fatal("expected default value limit to survive the overlay")
	}
}

func TestLoadServiceConfigRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
read_timeout = "fast"
	`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatal("expected parse failure for read_timeout")
	}
}

func TestLoadServiceConfigRejectsEmptyAddr(t *testing.T) {
	path := writeConfig(t, `
addr = "  "
	`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatal("expected rejection of blank addr")
	}
}

func TestLoadServiceConfigRejectsNegativeLimit(t *testing.T) {
	path := writeConfig(t, `
max_value_bytes = -1
	`)

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatal("expected rejection of negative max_value_bytes")
	}
}

func TestLoadServiceConfigMissingFile(t *testing.T) {
	if _, err := loadServiceConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
