// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads imtree settings from a config file, the
// environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/tagindex/tagexport"
	"golang.org/x/tagindex/tagfilter"
	"golang.org/x/tagindex/tagtree"
)

const (
	configName      = ".imtree"
	configType      = "yaml"
	envPrefix       = "IMTREE"
	envKeySeparator = "_"
)

// Defaults.
const (
	DefaultDriver      = "sqlite3"
	DefaultDSN         = "imtree.db"
	DefaultCompression = "none"
	DefaultPreview     = 24
)

// Config is the top-level configuration. Field tags use mapstructure
// for viper unmarshalling.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Build    BuildConfig    `mapstructure:"build"`
	Export   ExportConfig   `mapstructure:"export"`

	// RulesFile names a YAML document of filter rules. Rules given
	// inline take precedence over rules from the file. Viper lower-cases
	// inline keys, so tags with upper case letters or dots need
	// RulesFile.
	RulesFile string         `mapstructure:"rules_file"`
	Rules     map[string]any `mapstructure:"rules"`

	Verbosity   int    `mapstructure:"verbosity"`
	MetricsFile string `mapstructure:"metrics_file"`
}

// DatabaseConfig selects the record database.
type DatabaseConfig struct {
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	RetryMaxDelay time.Duration `mapstructure:"retry_max_delay"`
}

// BuildConfig controls how an index is built from records.
type BuildConfig struct {
	// Order is the tag name used at each level.
	Order []string `mapstructure:"order"`
	// Names are display names per level; they default to Order.
	Names  []string `mapstructure:"names"`
	Widths []string `mapstructure:"widths"`
	// Sort names a sort strategy per level.
	Sort    []string `mapstructure:"sort"`
	Workers int      `mapstructure:"workers"`
	Strict  bool     `mapstructure:"strict"`
	// Combine is the level at which grouped rules are combined, or
	// -1 to skip combining.
	Combine    int  `mapstructure:"combine"`
	RequireAll bool `mapstructure:"require_all"`
}

// ExportConfig controls the written document and page.
type ExportConfig struct {
	Compression string `mapstructure:"compression"`
	Title       string `mapstructure:"title"`
	Preview     int    `mapstructure:"preview"`
}

// Sentinel errors for configuration validation.
var (
	ErrUnknownDriver   = errors.New("database.driver must be sqlite3, sqlite or mysql")
	ErrInvalidWorkers  = errors.New("build.workers must be non-negative")
	ErrInvalidAttempts = errors.New("database.retry_attempts must be positive")
	ErrLevelMismatch   = errors.New("build.names, build.widths and build.sort must have one entry per build.order level")
	ErrInvalidCombine  = errors.New("build.combine must be -1 or a level of build.order")
	ErrInvalidPreview  = errors.New("export.preview must be non-negative")
)

// Load loads configuration from file, env vars, and defaults.
// If path is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// A missing config file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.dsn", DefaultDSN)
	v.SetDefault("database.retry_attempts", 20)
	v.SetDefault("database.retry_delay", 50*time.Millisecond)
	v.SetDefault("database.retry_max_delay", 6*time.Second)

	v.SetDefault("build.workers", 0)
	v.SetDefault("build.strict", false)
	v.SetDefault("build.combine", -1)
	v.SetDefault("build.require_all", false)

	v.SetDefault("export.compression", DefaultCompression)
	v.SetDefault("export.preview", DefaultPreview)

	v.SetDefault("verbosity", 0)
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "sqlite", "mysql":
	default:
		return ErrUnknownDriver
	}
	if c.Database.RetryAttempts <= 0 {
		return ErrInvalidAttempts
	}
	if err := c.Build.validate(); err != nil {
		return err
	}
	if c.Export.Preview < 0 {
		return ErrInvalidPreview
	}
	if _, err := tagexport.ParseCompression(c.Export.Compression); err != nil {
		return fmt.Errorf("export.compression: %w", err)
	}
	if c.Rules != nil {
		if _, err := parseInline(c.Rules); err != nil {
			return err
		}
	}
	return nil
}

func (b *BuildConfig) validate() error {
	if b.Workers < 0 {
		return ErrInvalidWorkers
	}
	n := len(b.Order)
	for _, l := range [][]string{b.Names, b.Widths, b.Sort} {
		if l != nil && len(l) != n {
			return ErrLevelMismatch
		}
	}
	if b.Combine < -1 || b.Combine >= n {
		return ErrInvalidCombine
	}
	for _, s := range b.Sort {
		if _, err := tagtree.ParseStrategy(s); err != nil {
			return fmt.Errorf("build.sort: %w", err)
		}
	}
	return nil
}

// Levels returns the level metadata for an index built with b.
func (b *BuildConfig) Levels() tagtree.Levels {
	names := b.Names
	if names == nil {
		names = b.Order
	}
	return tagtree.Levels{Names: names, Widths: b.Widths}
}

// Strategies returns the sort strategy for each level. Levels
// without a configured strategy sort plainly, except that a rule's
// order takes precedence for levels whose tag has a rule.
func (c *Config) Strategies(rules tagfilter.Rules) ([]tagtree.Strategy, error) {
	out := make([]tagtree.Strategy, len(c.Build.Order))
	for i, tag := range c.Build.Order {
		if c.Build.Sort != nil {
			s, err := tagtree.ParseStrategy(c.Build.Sort[i])
			if err != nil {
				return nil, err
			}
			out[i] = s
			continue
		}
		if r := rules[tag]; r != nil {
			out[i] = tagtree.Priority(r.Order()...)
		}
	}
	return out, nil
}

// Compression returns the parsed export compression.
func (c *Config) Compression() tagexport.Compression {
	comp, _ := tagexport.ParseCompression(c.Export.Compression)
	return comp
}

// LoadRules returns the filter rules from RulesFile merged with the
// inline Rules.
func (c *Config) LoadRules() (tagfilter.Rules, error) {
	rules := make(tagfilter.Rules)
	if c.RulesFile != "" {
		data, err := os.ReadFile(c.RulesFile)
		if err != nil {
			return nil, err
		}
		fileRules, err := tagfilter.ParseRules(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.RulesFile, err)
		}
		for k, r := range fileRules {
			rules[k] = r
		}
	}
	inline, err := parseInline(c.Rules)
	if err != nil {
		return nil, err
	}
	for k, r := range inline {
		rules[k] = r
	}
	return rules, nil
}

func parseInline(m map[string]any) (tagfilter.Rules, error) {
	rules := make(tagfilter.Rules, len(m))
	for tag, v := range m {
		r, err := tagfilter.ParseRule(v)
		if err != nil {
			return nil, fmt.Errorf("rules.%s: %w", tag, err)
		}
		rules[tag] = r
	}
	return rules, nil
}
