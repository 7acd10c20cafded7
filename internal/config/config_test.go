package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "goslope.db", cfg.Store.Path)
	assert.Equal(t, 5.0, cfg.Limit.Rate)
	assert.Equal(t, 10, cfg.Limit.Burst)
	assert.Equal(t, 30, cfg.Solver.Slices)
	assert.Equal(t, 20, cfg.Solver.MaxIterations)
	assert.Equal(t, 0.001, cfg.Solver.Tolerance)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GOSLOPE_SERVER_ADDR", ":9090")
	t.Setenv("GOSLOPE_SOLVER_SLICES", "50")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Solver.Slices)
	assert.Equal(t, 50, cfg.Solver.Options().Slices)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goslope.yaml")
	content := "server:\n  addr: \":7000\"\nlimit:\n  rate: 2\n  burst: 4\nstore:\n  path: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 2.0, cfg.Limit.Rate)
	assert.Equal(t, 4, cfg.Limit.Burst)
	assert.Empty(t, cfg.Store.Path)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Addr: ":1"}, Limit: LimitConfig{Rate: 1, Burst: 1}}
	require.NoError(t, cfg.Validate())

	cfg.Limit.Rate = 0
	assert.Error(t, cfg.Validate())

	cfg.Limit.Rate = 1
	cfg.Solver.Tolerance = -1
	assert.Error(t, cfg.Validate())
}
