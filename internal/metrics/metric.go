package metrics

import "github.com/san-kum/galaxysim/internal/galaxy"

// Metric observes the system after a tick and reports a single value.
type Metric interface {
	Name() string
	Observe(sys *galaxy.System, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metric set recorded by headless runs.
func Defaults(radius float64) []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMomentum(),
		NewAngularMomentumDrift(),
		NewMeanRadius(),
		NewContainment(2 * radius),
	}
}
