package galaxy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Star is a point mass. Brightness and Temperature are fixed at creation.
type Star struct {
	Pos         r2.Vec
	Vel         r2.Vec
	Mass        float64
	Brightness  float64
	Temperature float64
}

// Radius is the distance from the galactic center.
func (s Star) Radius() float64 {
	return r2.Norm(s.Pos)
}

func (s Star) finite() bool {
	return isFinite(s.Pos.X) && isFinite(s.Pos.Y) && isFinite(s.Vel.X) && isFinite(s.Vel.Y)
}

// Validate reports ErrInvalidMass for a non-positive or non-finite mass and
// ErrNonFinite for a non-finite position or velocity.
func (s Star) Validate() error {
	if !isFinite(s.Mass) || s.Mass <= 0 {
		return ErrInvalidMass
	}
	if !s.finite() {
		return ErrNonFinite
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func vecFinite(v r2.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y)
}
