// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tagindex/tagexport"
	"golang.org/x/tagindex/tagtree"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultDSN, cfg.Database.DSN)
	assert.Equal(t, 20, cfg.Database.RetryAttempts)
	assert.Equal(t, 6*time.Second, cfg.Database.RetryMaxDelay)
	assert.Equal(t, -1, cfg.Build.Combine)
	assert.Equal(t, tagexport.None, cfg.Compression())
	assert.Equal(t, DefaultPreview, cfg.Export.Preview)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "imtree.yaml", `
database:
  dsn: plots.db
  retry_delay: 10ms
build:
  order: [model, lead]
  names: [Model, Lead time]
  sort: [sort, T+]
  workers: 4
export:
  compression: lz4
rules:
  model: [global, {group: all, members: [global, regional]}]
`)
	t.Setenv("IMTREE_BUILD_WORKERS", "8")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plots.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Millisecond, cfg.Database.RetryDelay)
	assert.Equal(t, 8, cfg.Build.Workers)
	assert.Equal(t, tagexport.LZ4, cfg.Compression())
	assert.Equal(t, tagtree.Levels{Names: []string{"Model", "Lead time"}}, cfg.Build.Levels())

	rules, err := cfg.LoadRules()
	require.NoError(t, err)
	require.Contains(t, rules, "model")
	assert.Equal(t, []string{"global", "all"}, rules["model"].Order())

	strategies, err := cfg.Strategies(rules)
	require.NoError(t, err)
	require.Len(t, strategies, 2)
	assert.Equal(t, tagtree.Plain.String(), strategies[0].String())
	assert.Equal(t, tagtree.LeadTime.String(), strategies[1].String())
}

func TestLoadRulesFile(t *testing.T) {
	rulesPath := writeFile(t, "rules.yaml", "Plot Type: [Histogram, Line]\n")
	path := writeFile(t, "imtree.yaml", "rules_file: "+rulesPath+"\nbuild:\n  order: [Plot Type]\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	rules, err := cfg.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"Histogram", "Line"}, rules["Plot Type"].Values())

	strategies, err := cfg.Strategies(rules)
	require.NoError(t, err)
	got, err := tagtree.SortKeyList([]string{"Line", "Bar", "Histogram"}, strategies[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"Histogram", "Line", "Bar"}, got)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite3", RetryAttempts: 1},
			Build:    BuildConfig{Order: []string{"a", "b"}, Combine: -1},
			Export:   ExportConfig{Compression: "zlib"},
		}
	}
	require.NoError(t, valid().Validate())

	check := func(mutate func(*Config), want error) {
		t.Helper()
		c := valid()
		mutate(c)
		err := c.Validate()
		if want != nil {
			assert.ErrorIs(t, err, want)
		} else {
			assert.Error(t, err)
		}
	}
	check(func(c *Config) { c.Database.Driver = "postgres" }, ErrUnknownDriver)
	check(func(c *Config) { c.Database.RetryAttempts = 0 }, ErrInvalidAttempts)
	check(func(c *Config) { c.Build.Workers = -1 }, ErrInvalidWorkers)
	check(func(c *Config) { c.Build.Names = []string{"x"} }, ErrLevelMismatch)
	check(func(c *Config) { c.Build.Combine = 2 }, ErrInvalidCombine)
	check(func(c *Config) { c.Export.Preview = -3 }, ErrInvalidPreview)
	check(func(c *Config) { c.Build.Sort = []string{"sort", "sideways"} }, nil)
	check(func(c *Config) { c.Export.Compression = "brotli" }, nil)
	check(func(c *Config) { c.Rules = map[string]any{"a": "not a list"} }, nil)
}
