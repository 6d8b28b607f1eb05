package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
)

// SweepPoint records how the disk settled for one halo mass.
type SweepPoint struct {
	HaloMass    float64
	MinRadius   float64
	MaxRadius   float64
	MeanRadius  float64
	Containment float64
}

// SweepConfig describes the galaxy rebuilt for every sweep point.
type SweepConfig struct {
	Params    galaxy.Params
	Stars     int
	Seed      int64
	Dt        float64
	Transient int
	Record    int
	Backend   compute.Backend
}

// HaloSweep regenerates the same galaxy for each of steps halo masses
// evenly spaced over [lo, hi], lets it settle for Transient ticks, then
// tracks the mean radius over Record ticks. Containment is the fraction
// of stars inside the galaxy radius at the end. A single step runs only lo.
func HaloSweep(cfg SweepConfig, lo, hi float64, steps int) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", steps)
	}
	stride := 0.0
	if steps > 1 {
		stride = (hi - lo) / float64(steps-1)
	}

	results := make([]SweepPoint, 0, steps)
	ctl := galaxy.DefaultControl()

	for i := 0; i < steps; i++ {
		p := cfg.Params
		p.HaloMass = lo + float64(i)*stride

		in, err := galaxy.NewInitializer(p, rand.New(rand.NewSource(cfg.Seed)))
		if err != nil {
			return results, err
		}
		engine := galaxy.NewEngine(p, cfg.Backend)
		sys := in.Generate(cfg.Stars)

		for t := 0; t < cfg.Transient; t++ {
			if err := engine.Tick(sys, cfg.Dt, ctl); err != nil {
				return results, err
			}
		}

		pt := SweepPoint{HaloMass: p.HaloMass, MinRadius: math.Inf(1), MaxRadius: math.Inf(-1)}
		sum := 0.0
		n := 0
		for t := 0; t < cfg.Record; t++ {
			if err := engine.Tick(sys, cfg.Dt, ctl); err != nil {
				return results, err
			}
			r := galaxy.MeanRadius(sys)
			pt.MinRadius = math.Min(pt.MinRadius, r)
			pt.MaxRadius = math.Max(pt.MaxRadius, r)
			sum += r
			n++
		}
		if n == 0 {
			r := galaxy.MeanRadius(sys)
			pt.MinRadius, pt.MaxRadius, sum, n = r, r, r, 1
		}
		pt.MeanRadius = sum / float64(n)
		inside := metrics.NewContainment(p.GalaxyRadius)
		inside.Observe(sys, 0)
		pt.Containment = inside.Value()

		results = append(results, pt)
	}

	return results, nil
}
