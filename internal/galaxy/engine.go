package galaxy

import (
	"github.com/san-kum/galaxysim/internal/compute"
	"gonum.org/v1/gonum/spatial/r2"
)

// Engine runs ticks: a read phase computing every force, then a write
// phase integrating them.
type Engine struct {
	forces     *ForceModel
	integrator *Integrator
	buf        []r2.Vec
}

// NewEngine returns an Engine. A nil backend selects the default one.
func NewEngine(p Params, backend compute.Backend) *Engine {
	return &Engine{
		forces:     NewForceModel(p, backend),
		integrator: NewIntegrator(),
	}
}

func (e *Engine) ForceModel() *ForceModel { return e.forces }

// Tick advances sys by one step unless ctl is paused. A paused tick leaves
// every star bit-for-bit unchanged. Invalid dt or rate are rejected before
// any computation, and a failed tick leaves the previous state in place.
func (e *Engine) Tick(sys *System, dt float64, ctl Control) error {
	if ctl.Paused {
		return nil
	}
	if !isFinite(dt) || dt <= 0 {
		return ErrInvalidStep
	}
	if !isFinite(ctl.Rate) || ctl.Rate <= 0 {
		return ErrInvalidRate
	}

	e.buf = e.forces.Compute(sys, e.buf)
	for i, f := range e.buf {
		if !vecFinite(f) {
			return &StarError{Index: i, Err: ErrNonFinite}
		}
	}

	return e.integrator.Advance(sys, e.buf, dt, ctl.Rate)
}

// KineticEnergy returns Σ ½·m·|v|².
func KineticEnergy(sys *System) float64 {
	ke := 0.0
	for _, s := range sys.stars {
		ke += 0.5 * s.Mass * r2.Norm2(s.Vel)
	}
	return ke
}

// Momentum returns Σ m·v.
func Momentum(sys *System) r2.Vec {
	var p r2.Vec
	for _, s := range sys.stars {
		p = r2.Add(p, r2.Scale(s.Mass, s.Vel))
	}
	return p
}

// AngularMomentum returns Σ m·(x·vy − y·vx) about the origin.
func AngularMomentum(sys *System) float64 {
	l := 0.0
	for _, s := range sys.stars {
		l += s.Mass * (s.Pos.X*s.Vel.Y - s.Pos.Y*s.Vel.X)
	}
	return l
}

// MeanRadius returns the average distance of the stars from the origin.
func MeanRadius(sys *System) float64 {
	if len(sys.stars) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range sys.stars {
		sum += s.Radius()
	}
	return sum / float64(len(sys.stars))
}
