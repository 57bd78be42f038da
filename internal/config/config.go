package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig mirrors the nrepld config.toml layout.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	AdminAddr      string `toml:"admin_addr"`
	ReadTimeout    string `toml:"read_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	MaxValueBytes  int64  `toml:"max_value_bytes"`
	MaxStringBytes int64  `toml:"max_string_bytes"`
}

func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:5555"
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if strings.TrimSpace(cfg.ReadTimeout) != "" {
		if _, err := time.ParseDuration(strings.TrimSpace(cfg.ReadTimeout)); err != nil {
			return fmt.Errorf("read_timeout invalid: %w", err)
		}
	}
	if strings.TrimSpace(cfg.WriteTimeout) != "" {
		if _, err := time.ParseDuration(strings.TrimSpace(cfg.WriteTimeout)); err != nil {
			return fmt.Errorf("write_timeout invalid: %w", err)
		}
	}
	if cfg.MaxValueBytes < 0 {
		return fmt.Errorf("max_value_bytes must not be negative")
	}
	if cfg.MaxStringBytes < 0 {
		return fmt.Errorf("max_string_bytes must not be negative")
	}
	return nil
}
