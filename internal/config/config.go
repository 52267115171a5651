// Package config loads jig settings from defaults, an optional YAML file
// and JIG_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "jig"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// EnvPrefix prefixes environment overrides: JIG_SOLVER_TOLERANCE.
	EnvPrefix = "JIG"
)

// Output formats.
var Formats = []string{"yaml", "json", "text"}

// Log levels.
var Levels = []string{"debug", "info", "warn", "error"}

// Config is the full jig configuration.
type Config struct {
	Solver    SolverConfig    `mapstructure:"solver"`
	Recompute RecomputeConfig `mapstructure:"recompute"`
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Eval      EvalConfig      `mapstructure:"eval"`
}

// SolverConfig tunes the geometry kernel and the attachment engine.
type SolverConfig struct {
	// Tolerance is the confusion distance for degenerate checks.
	Tolerance float64 `mapstructure:"tolerance"`
	// Samples is the number of samples per curve for projections and
	// arc lengths.
	Samples int `mapstructure:"samples"`
	// MassGrid is the voxel grid resolution per axis for solid mass.
	MassGrid int `mapstructure:"mass_grid"`
}

type RecomputeConfig struct {
	// Parallelism bounds concurrent solves per level; 0 uses GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type EvalConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Solver:    SolverConfig{Tolerance: 1e-9, Samples: 64, MassGrid: 48},
		Recompute: RecomputeConfig{Parallelism: 0},
		Log:       LogConfig{Level: "warn"},
		Output:    OutputConfig{Format: "yaml"},
		Eval:      EvalConfig{Timeout: 5 * time.Second},
	}
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFilePath, when set, is the only file read and must exist.
	ConfigFilePath string
	// ConfigDirPath overrides ConfigDir for the default search.
	ConfigDirPath string
}

// ConfigDir returns the per-user jig configuration directory.
//
//nolint:revive // ConfigDir reads better than Dir for callers
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load resolves the configuration and returns it with the path of the file
// that was read, or "" when only defaults and environment applied. A
// missing file in the default locations is not an error.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("solver.samples", d.Solver.Samples)
	v.SetDefault("solver.mass_grid", d.Solver.MassGrid)
	v.SetDefault("recompute.parallelism", d.Recompute.Parallelism)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("eval.timeout", d.Eval.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			if dir, err = ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Solver.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("solver.tolerance must be positive, got %g", c.Solver.Tolerance))
	}
	if c.Solver.Samples < 8 {
		errs = append(errs, fmt.Errorf("solver.samples must be at least 8, got %d", c.Solver.Samples))
	}
	if c.Solver.MassGrid < 4 {
		errs = append(errs, fmt.Errorf("solver.mass_grid must be at least 4, got %d", c.Solver.MassGrid))
	}
	if c.Recompute.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("recompute.parallelism must not be negative, got %d", c.Recompute.Parallelism))
	}
	if !slices.Contains(Levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of %v", c.Log.Level, Levels))
	}
	if !slices.Contains(Formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format %q is not one of %v", c.Output.Format, Formats))
	}
	if c.Eval.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("eval.timeout must be positive, got %s", c.Eval.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
