// Package config loads the settings of the fin tool.
//
// Settings come from, by increasing precedence: defaults, a YAML or TOML file,
// a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file settings.
const (
	EnvDB       = "FIN_DB"
	EnvCurrency = "FIN_CURRENCY"
	EnvLogLevel = "FIN_LOG_LEVEL"
)

// Defaults.
const (
	DefaultDB       = "db.json"
	DefaultCurrency = "INR"
	DefaultLogLevel = "info"
)

// Config holds the settings of the fin tool.
type Config struct {
	DB       string `yaml:"db" toml:"db"`             // path to the JSON database
	Currency string `yaml:"currency" toml:"currency"` // ISO code used to format amounts
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// Load reads the configuration file at path, if any, and applies the
// environment overrides. The file format is chosen by extension: ".toml" for
// TOML, anything else for YAML. A missing file is not an error.
//
// A .env file next to the configuration file, or in the working directory, is
// loaded into the environment first. Variables already set win.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	envFiles := []string{".env"}
	if path != "" {
		envFiles = append([]string{filepath.Join(filepath.Dir(path), ".env")}, envFiles...)
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := unmarshal(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if cfg.DB == "" {
		cfg.DB = DefaultDB
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}
