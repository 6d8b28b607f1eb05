package galaxy

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	minMass        = 1.0
	massSpread     = 0.1
	minTemperature = 3000.0
	tempSpread     = 30000.0
)

// Initializer builds a disk of stars on approximately circular orbits
// around the halo.
type Initializer struct {
	params Params
	rng    *rand.Rand
}

// NewInitializer returns an Initializer drawing from rng. A nil rng is
// replaced by a time-seeded source. Params that fail Validate are
// rejected, since they would produce non-finite orbital speeds.
func NewInitializer(p Params, rng *rand.Rand) (*Initializer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Initializer{params: p, rng: rng}, nil
}

// Generate creates count stars. Each star draws angle, radius, mass and
// temperature from the source, in that order.
func (in *Initializer) Generate(count int) *System {
	if count < 0 {
		count = 0
	}
	stars := make([]Star, count)
	for i := range stars {
		stars[i] = in.star()
	}
	return newSystem(stars)
}

func (in *Initializer) star() Star {
	p := in.params

	angle := in.rng.Float64() * 2 * math.Pi
	radius := in.rng.Float64() * p.GalaxyRadius
	sin, cos := math.Sincos(angle)

	v := math.Sqrt(p.G * p.HaloMass / (radius + p.OrbitSoftening))

	return Star{
		Pos:         r2.Vec{X: radius * cos, Y: radius * sin},
		Vel:         r2.Vec{X: -v * sin, Y: v * cos},
		Mass:        minMass + in.rng.Float64()*massSpread,
		Temperature: minTemperature + in.rng.Float64()*tempSpread,
		Brightness:  1 - radius/p.GalaxyRadius,
	}
}

// Initialize generates count stars with the default parameters from a
// source seeded with seed.
func Initialize(count int, seed int64) *System {
	in := &Initializer{params: DefaultParams(), rng: rand.New(rand.NewSource(seed))}
	return in.Generate(count)
}
