// Package config loads the curnav configuration from a YAML file with
// CURNAV_* environment overrides.
//
// Nested keys are addressed with a double underscore in environment
// variables: CURNAV_SERVER__ADDR sets server.addr, CURNAV_LOG_LEVEL sets
// log_level.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	apperrors "github.com/fhgr/curnav/pkg/errors"
	"github.com/fhgr/curnav/pkg/view"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CURNAV_"

var validate = validator.New()

// DefaultPath returns ~/.config/curnav/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "curnav", "config.yaml"), nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps CURNAV_SERVER__CORS_ORIGINS to server.cors_origins.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config to %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints. The Redis section is only checked when
// a backend uses it.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	if c.UsesRedis() {
		if err := validate.Struct(c.Redis); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid redis configuration")
		}
	}
	return nil
}

// UsesRedis reports whether the cache or the session store is Redis-backed.
func (c *Config) UsesRedis() bool {
	return c.Cache.Backend == CacheRedis || c.Sessions.Backend == SessionsRedis
}

// ColorPalette returns the default group palette with configured overrides.
func (c *Config) ColorPalette() view.Palette {
	return view.DefaultPalette().Merge(c.Palette)
}
