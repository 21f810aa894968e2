// Package config loads emfactor configuration from a YAML file with
// environment-variable overrides. Defaults are chosen so the engine is
// usable with no config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides. Each one, when set, wins over the config
// file value.
const (
	EnvLogLevel         = "EMFACTOR_LOG_LEVEL"
	EnvLogFormat        = "EMFACTOR_LOG_FORMAT"
	EnvCacheTTL         = "EMFACTOR_CACHE_TTL"
	EnvPreferredDataset = "EMFACTOR_PREFERRED_DATASET"
	EnvReportingYear    = "EMFACTOR_REPORTING_YEAR"
	EnvIterations       = "EMFACTOR_ITERATIONS"
)

// defaultConfigDir is the directory under the user home holding config.yaml.
const defaultConfigDir = ".emfactor"

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "console" or "json".
	Format string `yaml:"format"`
}

// EngineConfig tunes calculation defaults.
type EngineConfig struct {
	// PreferredDataset fills in activity records with no dataset.
	PreferredDataset string `yaml:"preferred_dataset"`

	// ReportingYear fills in activity records with no year. Zero means the
	// current calendar year.
	ReportingYear int `yaml:"reporting_year"`

	// Iterations is the Monte Carlo sample count. Zero selects the engine
	// default of 10000.
	Iterations int `yaml:"iterations"`

	// Seed feeds the simulation PRNG for reproducible intervals.
	Seed uint64 `yaml:"seed"`

	// CacheTTL bounds factor cache entries (e.g. "15m").
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// MaxConcurrency bounds the batch worker pool. Zero selects NumCPU.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Config is the full emfactor configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`

	// Datasets lists factor dataset files loaded at startup.
	Datasets []string `yaml:"datasets"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default config file location
// (~/.emfactor/config.yaml), or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultConfigDir, "config.yaml")
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides. An unreadable or
// malformed file is an error; a missing one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file is fine; defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
				return Config{}, fmt.Errorf("parsing config file: %w", unmarshalErr)
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides layers EMFACTOR_* variables over the file values.
// Unparseable numeric values are ignored in favor of the file value.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvPreferredDataset); v != "" {
		cfg.Engine.PreferredDataset = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.CacheTTL = d
		}
	}
	if v := os.Getenv(EnvReportingYear); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			cfg.Engine.ReportingYear = year
		}
	}
	if v := os.Getenv(EnvIterations); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Iterations = n
		}
	}
}

// validate rejects values the engine constructors would reject anyway, with
// friendlier messages.
func (c Config) validate() error {
	if c.Engine.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be >= 0, got %s", c.Engine.CacheTTL)
	}
	if c.Engine.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %d", c.Engine.Iterations)
	}
	if c.Engine.ReportingYear < 0 {
		return fmt.Errorf("reporting_year must be >= 0, got %d", c.Engine.ReportingYear)
	}
	return nil
}
