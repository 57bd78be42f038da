package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/slatelisp/nrepld/internal/server"
)

// nrepld config.toml key mapping to runtime settings.
type fileConfig struct {
	Addr           string `toml:"addr"`
	AdminAddr      string `toml:"admin_addr"`
	ReadTimeout    string `toml:"read_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	MaxValueBytes  int64  `toml:"max_value_bytes"`
	MaxStringBytes int64  `toml:"max_string_bytes"`
}

// nrepld loader for TOML config with default overlay.
func loadServiceConfig(path string) (server.ServiceConfig, error) {
	cfg := server.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return server.ServiceConfig{}, fmt.Errorf("load nrepld config: %w", err)
	}

	if meta.IsDefined("addr") {
		addr := strings.TrimSpace(raw.Addr)
		if addr == "" {
			return server.ServiceConfig{}, fmt.Errorf("load nrepld config: addr must not be empty")
		}
		cfg.ListenAddr = addr
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return server.ServiceConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		if d < 0 {
			return server.ServiceConfig{}, fmt.Errorf("parse read_timeout: must not be negative")
		}
		cfg.ReadTimeout = d
	}
	if meta.IsDefined("write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return server.ServiceConfig{}, fmt.Errorf("parse write_timeout: %w", err)
		}
		if d < 0 {
			return server.ServiceConfig{}, fmt.Errorf("parse write_timeout: must not be negative")
		}
		cfg.WriteTimeout = d
	}
	if meta.IsDefined("max_value_bytes") {
		if raw.MaxValueBytes < 0 {
			return server.ServiceConfig{}, fmt.Errorf("load nrepld config: max_value_bytes must not be negative")
		}
		cfg.Limits.MaxValueBytes = raw.MaxValueBytes
	}
	if meta.IsDefined("max_string_bytes") {
		if raw.MaxStringBytes < 0 {
			return server.ServiceConfig{}, fmt.Errorf("load nrepld config: max_string_bytes must not be negative")
		}
		cfg.Limits.MaxStringBytes = raw.MaxStringBytes
	}

	return cfg, nil
}
