package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
)

// Runner drives an Engine for a fixed number of ticks.
type Runner struct {
	engine    *galaxy.Engine
	metrics   []metrics.Metric
	observers []Observer
}

func New(engine *galaxy.Engine) *Runner {
	return &Runner{
		engine:    engine,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

// Run ticks sys cfg.Steps times, reading the control from ctl before each
// tick. A tick failure stops the run and is returned as a *StepError along
// with everything sampled so far. Cancelling ctx returns ctx.Err().
func (r *Runner) Run(ctx context.Context, sys *galaxy.System, cfg Config, ctl galaxy.ControlSource) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if ctl == nil {
		ctl = galaxy.DefaultControl()
	}

	samples := cfg.Steps/cfg.SampleEvery + 1
	result := &Result{
		Times:   make([]float64, 0, samples),
		Frames:  make([][]galaxy.Star, 0, samples),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	r.sample(result, sys, t)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		c := ctl.Current()
		if err := r.engine.Tick(sys, cfg.Dt, c); err != nil {
			r.finish(result)
			return result, &StepError{Step: i, Time: t, Err: err}
		}

		if c.Paused {
			result.PausedSteps++
		} else {
			t += cfg.Dt
			result.StepsTaken++
		}

		for _, obs := range r.observers {
			obs.OnStep(sys, i, t, c)
		}

		if (i+1)%cfg.SampleEvery == 0 {
			r.sample(result, sys, t)
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) sample(result *Result, sys *galaxy.System, t float64) {
	result.Times = append(result.Times, t)
	result.Frames = append(result.Frames, sys.Snapshot(nil))
	for _, m := range r.metrics {
		m.Observe(sys, t)
		result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
	}
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sample interval must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}
