package sim

import (
	"fmt"

	"github.com/san-kum/galaxysim/internal/galaxy"
)

// Observer is notified after every tick, paused or not.
type Observer interface {
	OnStep(sys *galaxy.System, step int, t float64, ctl galaxy.Control)
}

type Config struct {
	Dt          float64
	Steps       int
	SampleEvery int
	Seed        int64
}

func DefaultConfig() Config {
	return Config{
		Dt:          galaxy.DefaultTimeStep,
		Steps:       500,
		SampleEvery: 10,
	}
}

// Result holds the sampled frames and metric series of one run. Frames,
// Times and every Series entry share the same index.
type Result struct {
	Times       []float64
	Frames      [][]galaxy.Star
	Series      map[string][]float64
	Metrics     map[string]float64
	StepsTaken  int
	PausedSteps int
}

// StepError wraps a tick failure with the step and simulated time it
// occurred at.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
