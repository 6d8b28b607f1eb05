package metrics

import "github.com/san-kum/galaxysim/internal/galaxy"

// Containment is the fraction of stars within radius of the origin at the
// last observation.
type Containment struct {
	name   string
	radius float64
	value  float64
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
		value:  1.0,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(sys *galaxy.System, t float64) {
	n := sys.Len()
	if n == 0 {
		c.value = 1.0
		return
	}
	inside := 0
	for i := 0; i < n; i++ {
		if sys.Star(i).Radius() <= c.radius {
			inside++
		}
	}
	c.value = float64(inside) / float64(n)
}

func (c *Containment) Value() float64 { return c.value }
func (c *Containment) Reset()         { c.value = 1.0 }

type MeanRadius struct {
	name  string
	value float64
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{name: "mean_radius"}
}

func (m *MeanRadius) Name() string { return m.name }

func (m *MeanRadius) Observe(sys *galaxy.System, t float64) {
	m.value = galaxy.MeanRadius(sys)
}

func (m *MeanRadius) Value() float64 { return m.value }
func (m *MeanRadius) Reset()         { m.value = 0 }
