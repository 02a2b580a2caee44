// Package config loads the engine configuration file.
//
// The file is YAML. Every section is optional; missing values keep their
// defaults. The environment overrides the file:
//
//	CRYPTOSUITE_CONFIG     configuration file path, when none is given
//	CRYPTOSUITE_SUITE      suite document path
//	CRYPTOSUITE_AUDIT_LOG  audit log path
//	CRYPTOSUITE_LOG_LEVEL  log level
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/cryptosuite/internal/api/server"
	"github.com/remiblancher/cryptosuite/internal/loader"
	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Environment variables read by Load.
const (
	EnvConfig   = "CRYPTOSUITE_CONFIG"
	EnvSuite    = "CRYPTOSUITE_SUITE"
	EnvAuditLog = "CRYPTOSUITE_AUDIT_LOG"
	EnvLogLevel = "CRYPTOSUITE_LOG_LEVEL"
)

// ErrInvalidConfig is returned when a configuration value is rejected.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the engine configuration.
type Config struct {
	Suite  SuiteConfig   `yaml:"suite"`
	Log    LogConfig     `yaml:"log"`
	Audit  AuditConfig   `yaml:"audit"`
	Server server.Config `yaml:"server"`

	// Levels applies to every scope.
	Levels policy.LevelSet `yaml:"levels"`

	// Scopes overrides levels per scope, keyed by scope name.
	Scopes map[string]policy.LevelSet `yaml:"scopes,omitempty"`

	// IgnoredPositions lists digest positions the validator skips.
	IgnoredPositions []string `yaml:"ignored_positions,omitempty"`
}

// SuiteConfig locates the suite document.
type SuiteConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"` // xml, json, yaml; detected when empty
}

// LogConfig configures the technical log.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AuditConfig configures the audit log. An empty path disables auditing.
type AuditConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Server: *server.DefaultConfig(),
		Levels: policy.LevelSet{Level: policy.LevelFail},
	}
}

// Load reads the configuration file at path, or the file named by
// CRYPTOSUITE_CONFIG when path is empty, then applies the environment.
// Without any file the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSuite); v != "" {
		c.Suite.Path = v
	}
	if v := os.Getenv(EnvAuditLog); v != "" {
		c.Audit.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks every enumerated value of the configuration.
func (c *Config) Validate() error {
	if c.Suite.Format != "" {
		if _, err := loader.ParseFormat(c.Suite.Format); err != nil {
			return fmt.Errorf("%w: suite: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %v", ErrInvalidConfig, err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("%w: server: %v", ErrInvalidConfig, err)
	}
	if err := c.Levels.Validate(); err != nil {
		return fmt.Errorf("%w: levels: %v", ErrInvalidConfig, err)
	}
	for name, set := range c.Scopes {
		if _, err := policy.ParseScope(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if err := set.Validate(); err != nil {
			return fmt.Errorf("%w: scope %s: %v", ErrInvalidConfig, name, err)
		}
	}
	if _, err := c.Positions(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

// SuiteFormat returns the configured suite format, or "" for detection.
func (c *Config) SuiteFormat() loader.Format {
	f, _ := loader.ParseFormat(c.Suite.Format)
	return f
}

// Positions returns the parsed ignored digest positions.
func (c *Config) Positions() ([]validation.DigestPosition, error) {
	positions := make([]validation.DigestPosition, 0, len(c.IgnoredPositions))
	for _, raw := range c.IgnoredPositions {
		p, err := validation.ParseDigestPosition(raw)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// CatalogueOptions returns the level options of the configuration.
func (c *Config) CatalogueOptions() []policy.CatalogueOption {
	opts := []policy.CatalogueOption{policy.WithDefaultLevels(c.Levels)}
	for name, set := range c.Scopes {
		scope, err := policy.ParseScope(name)
		if err != nil {
			continue
		}
		opts = append(opts, policy.WithScopeLevels(scope, set))
	}
	return opts
}

// ValidatorOptions returns the validator options of the configuration.
func (c *Config) ValidatorOptions() []validation.Option {
	positions, _ := c.Positions()
	if len(positions) == 0 {
		return nil
	}
	return []validation.Option{validation.WithIgnoredPositions(positions...)}
}
