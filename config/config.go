package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the engine tuning file.
type Config struct {
	Meshing Meshing `yaml:"meshing"`
	World   World   `yaml:"world"`
}

type Meshing struct {
	// BudgetPerTick caps how many chunks are remeshed in one tick.
	BudgetPerTick int `yaml:"budget_per_tick"`
	// Workers sizes the meshing worker pool. 0 means one per CPU.
	Workers int `yaml:"workers"`
	// UnitScale is the world-space size of one voxel edge.
	UnitScale float32 `yaml:"unit_scale"`
	// TexelScale maps one voxel of quad extent to UV space.
	TexelScale float32 `yaml:"texel_scale"`
}

type World struct {
	Seed       int64   `yaml:"seed"`
	NoiseScale float64 `yaml:"noise_scale"`
	// HeightScale is the terrain amplitude in voxels above the floor.
	HeightScale float64 `yaml:"height_scale"`
}

func Default() Config {
	return Config{
		Meshing: Meshing{
			BudgetPerTick: 16,
			Workers:       0,
			UnitScale:     1.0,
			TexelScale:    1.0,
		},
		World: World{
			Seed:        1,
			NoiseScale:  0.05,
			HeightScale: 24,
		},
	}
}

// Load reads and validates a YAML tuning file. Fields absent from the file
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects configurations that would silently do no work or emit
// degenerate geometry.
func (c Config) Validate() error {
	if c.Meshing.BudgetPerTick <= 0 {
		return errors.Errorf("budget_per_tick must be positive, got %d", c.Meshing.BudgetPerTick)
	}
	if c.Meshing.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Meshing.Workers)
	}
	if c.Meshing.UnitScale <= 0 {
		return errors.Errorf("unit_scale must be positive, got %g", c.Meshing.UnitScale)
	}
	if c.Meshing.TexelScale <= 0 {
		return errors.Errorf("texel_scale must be positive, got %g", c.Meshing.TexelScale)
	}
	if c.World.NoiseScale <= 0 {
		return errors.Errorf("noise_scale must be positive, got %g", c.World.NoiseScale)
	}
	if c.World.HeightScale <= 0 {
		return errors.Errorf("height_scale must be positive, got %g", c.World.HeightScale)
	}
	return nil
}
