package config

import "sort"

// Presets maps a name to a change applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"milkyway": func(c *Config) {},
	"dense": func(c *Config) {
		c.Stars = 2000
		c.Physics.GalaxyRadius = 25
	},
	"sparse": func(c *Config) {
		c.Stars = 300
		c.Physics.GalaxyRadius = 80
	},
	"heavy-halo": func(c *Config) {
		c.Physics.HaloMass = 3e6
		c.Dt = 0.05
	},
	"cluster": func(c *Config) {
		c.Stars = 500
		c.Physics.HaloMass = 0
		c.Physics.G = 0.05
		c.Physics.GalaxyRadius = 20
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
