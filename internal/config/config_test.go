package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emfactor/emfactor/internal/config"
)

// clearEnv unsets every EMFACTOR_* override so file values are observable.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvLogLevel, config.EnvLogFormat, config.EnvCacheTTL,
		config.EnvPreferredDataset, config.EnvReportingYear, config.EnvIterations,
	} {
		t.Setenv(key, "")
	}
}

// TestDefault pins the zero-file configuration.
func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Datasets)
	assert.Zero(t, cfg.Engine.CacheTTL)
}

// TestLoad_MissingFile verifies a nonexistent path falls back to defaults
// rather than erroring.
func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// TestLoad_FromFile verifies a config file is read in full.
func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`logging:
  level: debug
  format: json
engine:
  preferred_dataset: DEFRA
  reporting_year: 2024
  iterations: 50000
  seed: 42
  cache_ttl: 30m
  max_concurrency: 8
datasets:
  - /data/defra.yaml
  - /data/egrid.yaml
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "DEFRA", cfg.Engine.PreferredDataset)
	assert.Equal(t, 2024, cfg.Engine.ReportingYear)
	assert.Equal(t, 50000, cfg.Engine.Iterations)
	assert.Equal(t, uint64(42), cfg.Engine.Seed)
	assert.Equal(t, 30*time.Minute, cfg.Engine.CacheTTL)
	assert.Equal(t, 8, cfg.Engine.MaxConcurrency)
	assert.Equal(t, []string{"/data/defra.yaml", "/data/egrid.yaml"}, cfg.Datasets)
}

// TestLoad_MalformedFile verifies a present-but-broken file is an error,
// unlike a missing one.
func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [not a map"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

// TestLoad_EnvOverrides verifies EMFACTOR_* variables win over file values
// and that unparseable numerics are ignored.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`logging:
  level: info
engine:
  preferred_dataset: DEFRA
  reporting_year: 2023
  cache_ttl: 15m
`), 0o600))

	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvPreferredDataset, "EPA_eGRID")
	t.Setenv(config.EnvReportingYear, "2024")
	t.Setenv(config.EnvCacheTTL, "1h")
	t.Setenv(config.EnvIterations, "not-a-number")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "EPA_eGRID", cfg.Engine.PreferredDataset)
	assert.Equal(t, 2024, cfg.Engine.ReportingYear)
	assert.Equal(t, time.Hour, cfg.Engine.CacheTTL)
	assert.Zero(t, cfg.Engine.Iterations, "garbage numeric override must be ignored")
}

// TestLoad_Validation verifies negative values are rejected after overrides.
func TestLoad_Validation(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`engine:
  iterations: -1
`), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
}

// TestDefaultPath verifies the path lands under the user home.
func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in this environment")
	}
	assert.Equal(t, filepath.Join(home, ".emfactor", "config.yaml"), config.DefaultPath())
}
