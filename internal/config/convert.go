package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/slatelisp/nrepld/internal/server"
)

// ServiceConfig lowers file settings into the server runtime form.
func ServiceConfig(cfg ServerConfig) (server.ServiceConfig, error) {
	out := server.DefaultServiceConfig()
	if addr := strings.TrimSpace(cfg.Addr); addr != "" {
		out.ListenAddr = addr
	}
	out.AdminListenAddr = strings.TrimSpace(cfg.AdminAddr)
	if raw := strings.TrimSpace(cfg.ReadTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return server.ServiceConfig{}, fmt.Errorf("read_timeout invalid: %w", err)
		}
		out.ReadTimeout = d
	}
	if raw := strings.TrimSpace(cfg.WriteTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return server.ServiceConfig{}, fmt.Errorf("write_timeout invalid: %w", err)
		}
		out.WriteTimeout = d
	}
	if cfg.MaxValueBytes > 0 {
		out.Limits.MaxValueBytes = cfg.MaxValueBytes
	}
	if cfg.MaxStringBytes > 0 {
		out.Limits.MaxStringBytes = cfg.MaxStringBytes
	}
	return out, nil
}
