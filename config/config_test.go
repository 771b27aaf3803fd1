package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero budget", func(c *Config) { c.Meshing.BudgetPerTick = 0 }},
		{"negative budget", func(c *Config) { c.Meshing.BudgetPerTick = -4 }},
		{"negative workers", func(c *Config) { c.Meshing.Workers = -1 }},
		{"zero unit scale", func(c *Config) { c.Meshing.UnitScale = 0 }},
		{"negative texel scale", func(c *Config) { c.Meshing.TexelScale = -1 }},
		{"zero noise scale", func(c *Config) { c.World.NoiseScale = 0 }},
		{"zero height scale", func(c *Config) { c.World.HeightScale = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("meshing:\n  budget_per_tick: 4\n  workers: 2\nworld:\n  seed: 99\n")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Meshing.BudgetPerTick)
	assert.Equal(t, 2, cfg.Meshing.Workers)
	assert.Equal(t, int64(99), cfg.World.Seed)
	// Untouched fields keep their defaults.
	assert.Equal(t, float32(1.0), cfg.Meshing.UnitScale)
	assert.Equal(t, 0.05, cfg.World.NoiseScale)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meshing:\n  budget_per_tick: -1\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
