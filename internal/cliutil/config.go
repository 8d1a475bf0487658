package cliutil

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds persistent defaults for lmdbtool, loaded with lower priority
// than explicit flags or environment variables (see the configuration
// design note).
type Config struct {
	DefaultFormat string `yaml:"default_format"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	StringKeys    bool   `yaml:"string_keys"`
	StringValues  bool   `yaml:"string_values"`
}

// Load reads a YAML config file at path. A missing file is not an error;
// it yields a zero-valued Config so callers can layer flag and environment
// overrides on top unconditionally.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overlays recognized LMDBTOOL_* environment variables onto cfg,
// taking precedence over the file but yielding to explicit CLI flags.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("LMDBTOOL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LMDBTOOL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("LMDBTOOL_FORMAT"); v != "" {
		cfg.DefaultFormat = v
	}
}
