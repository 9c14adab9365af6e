// Package config loads processor configuration from config.yaml with
// environment-variable overrides and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full option set for the processor and server.
type Config struct {
	DataDir         string `yaml:"data_dir"`
	DatabaseURL     string `yaml:"database_url"`
	Port            string `yaml:"port"`
	GovTrack        bool   `yaml:"govtrack"`
	Amendments      *bool  `yaml:"amendments"` // nil defaults to true
	LegislatorIDMap string `yaml:"legislator_id_map"`
}

// Load reads config.yaml (or $CONFIG_PATH) if present, applies
// environment overrides, and fills defaults. A missing config file is
// not an error; a malformed one is.
func Load() (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	}

	// Env vars override YAML values
	envOverride(&cfg.DataDir, "CONGRESS_DATA_DIR")
	envOverride(&cfg.DatabaseURL, "DATABASE_URL")
	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.LegislatorIDMap, "LEGISLATOR_ID_MAP")
	envOverrideBool(&cfg.GovTrack, "GOVTRACK")
	if v := os.Getenv("PROCESS_AMENDMENTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			cfg.Amendments = &b
		}
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}

// ProcessAmendments resolves the amendments toggle with its default.
func (c Config) ProcessAmendments() bool {
	if c.Amendments == nil {
		return true
	}
	return *c.Amendments
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
