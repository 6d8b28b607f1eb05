package galaxy

import "gonum.org/v1/gonum/spatial/r2"

// System owns the stars of one simulation. Its size never changes after
// construction; the integrator mutates stars in place each tick.
type System struct {
	stars   []Star
	scratch []Star
}

// NewSystem copies stars into a new System after checking every mass is
// positive and every position and velocity is finite.
func NewSystem(stars []Star) (*System, error) {
	for i, s := range stars {
		if err := s.Validate(); err != nil {
			return nil, &StarError{Index: i, Err: err}
		}
	}
	return newSystem(stars), nil
}

func newSystem(stars []Star) *System {
	c := make([]Star, len(stars))
	copy(c, stars)
	return &System{
		stars:   c,
		scratch: make([]Star, len(stars)),
	}
}

func (s *System) Len() int { return len(s.stars) }

// Star returns a copy of the i-th star.
func (s *System) Star(i int) Star { return s.stars[i] }

// Snapshot copies every star into dst, growing it if needed, and returns it.
// Renderers read snapshots, never the live slice.
func (s *System) Snapshot(dst []Star) []Star {
	if cap(dst) < len(s.stars) {
		dst = make([]Star, len(s.stars))
	}
	dst = dst[:len(s.stars)]
	copy(dst, s.stars)
	return dst
}

// Positions fills dst with the current star positions.
func (s *System) Positions(dst []r2.Vec) []r2.Vec {
	if cap(dst) < len(s.stars) {
		dst = make([]r2.Vec, len(s.stars))
	}
	dst = dst[:len(s.stars)]
	for i := range s.stars {
		dst[i] = s.stars[i].Pos
	}
	return dst
}

// Masses fills dst with the star masses.
func (s *System) Masses(dst []float64) []float64 {
	if cap(dst) < len(s.stars) {
		dst = make([]float64, len(s.stars))
	}
	dst = dst[:len(s.stars)]
	for i := range s.stars {
		dst[i] = s.stars[i].Mass
	}
	return dst
}

// Valid reports whether all positions and velocities are finite.
func (s *System) Valid() bool {
	for i := range s.stars {
		if !s.stars[i].finite() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the system.
func (s *System) Clone() *System {
	return newSystem(s.stars)
}
