package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FINVAULT_"

// Config holds all runtime configuration for the dashboard core.
type Config struct {
	Backend BackendConfig `koanf:"backend"`
	Gateway GatewayConfig `koanf:"gateway"`
	Cache   CacheConfig   `koanf:"cache"`
}

// BackendConfig describes how to reach the banking backend.
type BackendConfig struct {
	BaseURL        string `koanf:"base_url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// GatewayConfig describes the local gateway HTTP surface.
type GatewayConfig struct {
	Port string `koanf:"port"`
}

// CacheConfig describes the local receipt/budget cache.
type CacheConfig struct {
	Path string `koanf:"path"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"backend.base_url":        "http://localhost:8000/api",
		"backend.timeout_seconds": 30,
		"gateway.port":            "9446",
		"cache.path":              "dashboard-core.db",
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// FINVAULT_-prefixed environment variables, in increasing precedence.
// An empty configPath skips the file layer; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: loading %s: %w", configPath, err)
			}
		}
	}

	// FINVAULT_BACKEND_BASE_URL -> backend.base_url: the first underscore
	// separates the section, the rest belong to the key.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config: backend.base_url must not be empty")
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("config: backend.timeout_seconds must be positive")
	}

	return &cfg, nil
}
