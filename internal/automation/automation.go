package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of galaxy runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the value
// from the preset, or from the defaults when no preset is named.
type ScenarioStep struct {
	Name     string  `yaml:"name"`
	Preset   string  `yaml:"preset"`
	Stars    int     `yaml:"stars"`
	Seed     int64   `yaml:"seed"`
	Steps    int     `yaml:"steps"`
	Dt       float64 `yaml:"dt"`
	Rate     float64 `yaml:"rate"`
	HaloMass float64 `yaml:"halo_mass"`
	Save     bool    `yaml:"save"`
}

// Outcome is the result of one scenario step.
type Outcome struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the run configuration of a step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Stars > 0 {
		cfg.Stars = s.Stars
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Rate > 0 {
		cfg.Rate = s.Rate
	}
	if s.HaloMass > 0 {
		cfg.Physics.HaloMass = s.HaloMass
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps marked save are written
// to st, which may be nil when nothing is saved. Progress goes to out.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, out io.Writer) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}

		p := cfg.Params()
		backend := compute.NewParallelBackend(cfg.Workers)
		in, err := galaxy.NewInitializer(p, rand.New(rand.NewSource(cfg.Seed)))
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		sys := in.Generate(cfg.Stars)

		runner := sim.New(galaxy.NewEngine(p, backend))
		for _, m := range metrics.Defaults(p.GalaxyRadius) {
			runner.AddMetric(m)
		}

		result, err := runner.Run(ctx, sys, sim.Config{
			Dt:          cfg.Dt,
			Steps:       cfg.Steps,
			SampleEvery: cfg.SampleEvery,
			Seed:        cfg.Seed,
		}, galaxy.Control{Rate: cfg.Rate})
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}

		outcome := Outcome{Name: name, Result: result}
		if step.Save {
			if st == nil {
				return outcomes, fmt.Errorf("step %d: no store to save into", i+1)
			}
			outcome.RunID, err = st.Save(storage.RunInfo{
				Preset:      step.Preset,
				Seed:        cfg.Seed,
				Stars:       cfg.Stars,
				Dt:          cfg.Dt,
				Steps:       cfg.Steps,
				SampleEvery: cfg.SampleEvery,
				Rate:        cfg.Rate,
				Backend:     backend.Name(),
				Params:      p,
			}, result)
			if err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
			fmt.Fprintf(out, "  saved as %s\n", outcome.RunID)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
