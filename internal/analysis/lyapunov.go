package analysis

import (
	"math"

	"github.com/san-kum/galaxysim/internal/galaxy"
)

// LyapunovExponent estimates the largest Lyapunov exponent of sys using
// the trajectory separation method. The x position of star 0 is displaced
// by perturbation, both copies are advanced, and the pair is renormalized
// whenever the separation exceeds one unit.
// A positive value indicates chaos. sys is not modified.
func LyapunovExponent(
	engine *galaxy.Engine,
	sys *galaxy.System,
	dt float64,
	steps int,
	perturbation float64,
) (float64, error) {
	if sys.Len() == 0 || steps <= 0 || perturbation <= 0 {
		return 0, nil
	}

	x := sys.Clone()
	stars := sys.Snapshot(nil)
	stars[0].Pos.X += perturbation
	xp, err := galaxy.NewSystem(stars)
	if err != nil {
		return 0, err
	}

	d0 := perturbation
	ctl := galaxy.DefaultControl()

	var a, b []galaxy.Star
	sumLog := 0.0
	sep := d0

	for i := 0; i < steps; i++ {
		if err := engine.Tick(x, dt, ctl); err != nil {
			return 0, err
		}
		if err := engine.Tick(xp, dt, ctl); err != nil {
			return 0, err
		}

		a = x.Snapshot(a)
		b = xp.Snapshot(b)
		sep = separation(a, b)

		// renormalize before the separation overflows
		if sep > 1.0 {
			sumLog += math.Log(sep / d0)
			scale := d0 / sep
			for j := range b {
				b[j].Pos.X = a[j].Pos.X + (b[j].Pos.X-a[j].Pos.X)*scale
				b[j].Pos.Y = a[j].Pos.Y + (b[j].Pos.Y-a[j].Pos.Y)*scale
				b[j].Vel.X = a[j].Vel.X + (b[j].Vel.X-a[j].Vel.X)*scale
				b[j].Vel.Y = a[j].Vel.Y + (b[j].Vel.Y-a[j].Vel.Y)*scale
			}
			if xp, err = galaxy.NewSystem(b); err != nil {
				return 0, err
			}
			sep = d0
		}
	}

	if sep <= 0 {
		return 0, nil
	}
	sumLog += math.Log(sep / d0)
	return sumLog / (float64(steps) * dt), nil
}

// separation is the Euclidean distance between two systems in phase space.
func separation(a, b []galaxy.Star) float64 {
	sum := 0.0
	for i := range a {
		dx := b[i].Pos.X - a[i].Pos.X
		dy := b[i].Pos.Y - a[i].Pos.Y
		dvx := b[i].Vel.X - a[i].Vel.X
		dvy := b[i].Vel.Y - a[i].Vel.Y
		sum += dx*dx + dy*dy + dvx*dvx + dvy*dvy
	}
	return math.Sqrt(sum)
}
