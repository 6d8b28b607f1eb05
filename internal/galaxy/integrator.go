package galaxy

import "gonum.org/v1/gonum/spatial/r2"

// Integrator applies one split first-order step. Velocity absorbs the
// force at the native dt; position moves at dt scaled by the rate
// multiplier, so the multiplier changes playback speed without changing
// the force-to-velocity coupling.
type Integrator struct{}

func NewIntegrator() *Integrator {
	return &Integrator{}
}

// Advance mutates sys in place:
//
//	v += F·dt
//	x += v·dt·rate
//
// The new states are staged first. If any of them is non-finite the system
// is left untouched and ErrNonFinite is returned.
func (it *Integrator) Advance(sys *System, forces []r2.Vec, dt, rate float64) error {
	if len(forces) != len(sys.stars) {
		return ErrDimensionMismatch
	}

	next := sys.scratch
	if len(next) != len(sys.stars) {
		next = make([]Star, len(sys.stars))
	}

	posScale := dt * rate
	for i, s := range sys.stars {
		s.Vel.X += forces[i].X * dt
		s.Vel.Y += forces[i].Y * dt
		s.Pos.X += s.Vel.X * posScale
		s.Pos.Y += s.Vel.Y * posScale

		if !s.finite() {
			return &StarError{Index: i, Err: ErrNonFinite}
		}
		next[i] = s
	}

	sys.scratch = sys.stars
	sys.stars = next
	return nil
}
