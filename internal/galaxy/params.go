package galaxy

import "fmt"

const (
	DefaultStarCount      = 1000
	GalaxyRadius          = 50.0
	GravitationalConstant = 0.0001
	HaloMass              = 1e6
	DefaultTimeStep       = 0.1

	PairSoftening  = 0.01
	HaloSoftening  = 0.1
	OrbitSoftening = 0.1

	// SpeedFactor is applied by one speed-up or slow-down command.
	SpeedFactor = 1.5
)

// Stars inside this radius of the origin feel no halo force.
const originEpsilon = 1e-12

// Params holds the physical constants shared by the initializer and the
// force model.
type Params struct {
	G              float64 `json:"g"`
	HaloMass       float64 `json:"halo_mass"`
	GalaxyRadius   float64 `json:"galaxy_radius"`
	PairSoftening  float64 `json:"pair_softening"`
	HaloSoftening  float64 `json:"halo_softening"`
	OrbitSoftening float64 `json:"orbit_softening"`
}

func DefaultParams() Params {
	return Params{
		G:              GravitationalConstant,
		HaloMass:       HaloMass,
		GalaxyRadius:   GalaxyRadius,
		PairSoftening:  PairSoftening,
		HaloSoftening:  HaloSoftening,
		OrbitSoftening: OrbitSoftening,
	}
}

// Validate checks that every constant is finite, that G, the radius and
// the softenings are positive, and that the halo mass is not negative.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"g", p.G},
		{"galaxy_radius", p.GalaxyRadius},
		{"pair_softening", p.PairSoftening},
		{"halo_softening", p.HaloSoftening},
		{"orbit_softening", p.OrbitSoftening},
	}
	for _, f := range positive {
		if !isFinite(f.v) || f.v <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParams, f.name, f.v)
		}
	}
	if !isFinite(p.HaloMass) || p.HaloMass < 0 {
		return fmt.Errorf("%w: halo_mass = %v", ErrInvalidParams, p.HaloMass)
	}
	return nil
}
