package config

import (
	"fmt"
	"os"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps       = 500
	DefaultSampleEvery = 10
	DefaultFrameRate   = 60
)

type Config struct {
	Stars       int           `yaml:"stars"`
	Seed        int64         `yaml:"seed"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	SampleEvery int           `yaml:"sample_every"`
	Rate        float64       `yaml:"rate"`
	Workers     int           `yaml:"workers"`
	FrameRate   int           `yaml:"fps"`
	Physics     PhysicsConfig `yaml:"physics"`
}

type PhysicsConfig struct {
	G              float64 `yaml:"g"`
	HaloMass       float64 `yaml:"halo_mass"`
	GalaxyRadius   float64 `yaml:"galaxy_radius"`
	PairSoftening  float64 `yaml:"pair_softening"`
	HaloSoftening  float64 `yaml:"halo_softening"`
	OrbitSoftening float64 `yaml:"orbit_softening"`
}

func DefaultConfig() *Config {
	p := galaxy.DefaultParams()
	return &Config{
		Stars:       galaxy.DefaultStarCount,
		Dt:          galaxy.DefaultTimeStep,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Rate:        1.0,
		FrameRate:   DefaultFrameRate,
		Physics: PhysicsConfig{
			G:              p.G,
			HaloMass:       p.HaloMass,
			GalaxyRadius:   p.GalaxyRadius,
			PairSoftening:  p.PairSoftening,
			HaloSoftening:  p.HaloSoftening,
			OrbitSoftening: p.OrbitSoftening,
		},
	}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of base, which is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Stars < 0 {
		return fmt.Errorf("stars must be non-negative, got %d", c.Stars)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %f", c.Rate)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FrameRate)
	}
	p := c.Physics
	if p.G <= 0 || p.HaloMass < 0 || p.GalaxyRadius <= 0 {
		return fmt.Errorf("physics: g and galaxy_radius must be positive, halo_mass non-negative")
	}
	if p.PairSoftening <= 0 || p.HaloSoftening <= 0 || p.OrbitSoftening <= 0 {
		return fmt.Errorf("physics: softening terms must be positive")
	}
	return nil
}

func (c *Config) Params() galaxy.Params {
	return galaxy.Params{
		G:              c.Physics.G,
		HaloMass:       c.Physics.HaloMass,
		GalaxyRadius:   c.Physics.GalaxyRadius,
		PairSoftening:  c.Physics.PairSoftening,
		HaloSoftening:  c.Physics.HaloSoftening,
		OrbitSoftening: c.Physics.OrbitSoftening,
	}
}
