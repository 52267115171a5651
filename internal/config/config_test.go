package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, used, err := Load(LoadOptions{ConfigDirPath: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
solver:
  tolerance: 1.0e-7
  mass_grid: 32
recompute:
  parallelism: 2
output:
  format: json
eval:
  timeout: 250ms
`)

	cfg, used, err := Load(LoadOptions{ConfigDirPath: dir})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.InDelta(t, 1e-7, cfg.Solver.Tolerance, 1e-15)
	assert.Equal(t, 32, cfg.Solver.MassGrid)
	assert.Equal(t, 64, cfg.Solver.Samples, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Recompute.Parallelism)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.Eval.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log:\n  level: info\n")
	t.Setenv("JIG_LOG_LEVEL", "debug")
	t.Setenv("JIG_SOLVER_SAMPLES", "128")

	cfg, _, err := Load(LoadOptions{ConfigDirPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 128, cfg.Solver.Samples)
}

func TestExplicitFileMustExist(t *testing.T) {
	_, _, err := Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "output:\n  format: text\n")
	cfg, used, err := Load(LoadOptions{ConfigFilePath: path})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"tolerance", func(c *Config) { c.Solver.Tolerance = 0 }, "solver.tolerance"},
		{"samples", func(c *Config) { c.Solver.Samples = 2 }, "solver.samples"},
		{"mass grid", func(c *Config) { c.Solver.MassGrid = 1 }, "solver.mass_grid"},
		{"parallelism", func(c *Config) { c.Recompute.Parallelism = -1 }, "recompute.parallelism"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"timeout", func(c *Config) { c.Eval.Timeout = 0 }, "eval.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestInvalidFileValueRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output:\n  format: xml\n")
	_, _, err := Load(LoadOptions{ConfigDirPath: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}
