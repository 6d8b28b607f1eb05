package galaxy

import (
	"github.com/san-kum/galaxysim/internal/compute"
	"gonum.org/v1/gonum/spatial/r2"
)

// ForceModel computes the net force on every star from its neighbours and
// the dark-matter halo. It never mutates the system.
type ForceModel struct {
	params  Params
	backend compute.Backend

	positions []r2.Vec
	masses    []float64
}

// NewForceModel returns a ForceModel using backend for the pairwise sum.
// A nil backend selects compute.GetBackend().
func NewForceModel(p Params, backend compute.Backend) *ForceModel {
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &ForceModel{params: p, backend: backend}
}

func (f *ForceModel) Params() Params { return f.params }

func (f *ForceModel) Backend() compute.Backend { return f.backend }

// Compute writes the net force on each star into dst and returns it.
func (f *ForceModel) Compute(sys *System, dst []r2.Vec) []r2.Vec {
	dst = f.Pairwise(sys, dst)
	for i := range sys.stars {
		dst[i] = r2.Add(dst[i], f.Halo(sys.stars[i]))
	}
	return dst
}

// Pairwise writes only the star-star gravity term into dst.
func (f *ForceModel) Pairwise(sys *System, dst []r2.Vec) []r2.Vec {
	n := sys.Len()
	if cap(dst) < n {
		dst = make([]r2.Vec, n)
	}
	dst = dst[:n]

	f.positions = sys.Positions(f.positions)
	f.masses = sys.Masses(f.masses)
	f.backend.PairwiseForces(f.positions, f.masses, f.params.G, f.params.PairSoftening, dst)
	return dst
}

// Halo returns the inward pull of the halo on s:
//
//	-G·M·m/(r²+softening) · p/r
//
// A star at the origin has no defined direction and feels no halo force.
func (f *ForceModel) Halo(s Star) r2.Vec {
	r2n := r2.Norm2(s.Pos)
	r := r2.Norm(s.Pos)
	if r < originEpsilon {
		return r2.Vec{}
	}
	mag := f.params.G * f.params.HaloMass * s.Mass / (r2n + f.params.HaloSoftening)
	return r2.Vec{X: -mag * (s.Pos.X / r), Y: -mag * (s.Pos.Y / r)}
}

// HaloMagnitude is |Halo| for a star of the given mass at radius r.
func (f *ForceModel) HaloMagnitude(mass, r float64) float64 {
	return f.params.G * f.params.HaloMass * mass / (r*r + f.params.HaloSoftening)
}
