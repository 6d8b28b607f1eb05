package render

import (
	"github.com/san-kum/galaxysim/internal/galaxy"
)

// Projection maps world coordinates in [-Radius, Radius] onto a canvas of
// Width x Height sub-pixels, y up.
type Projection struct {
	Radius        float64
	Width, Height int
}

func NewProjection(radius float64, c *Canvas) Projection {
	return Projection{Radius: radius, Width: c.SubWidth(), Height: c.SubHeight()}
}

func (p Projection) Project(x, y float64) (px, py int, ok bool) {
	if p.Radius <= 0 || p.Width <= 0 || p.Height <= 0 {
		return 0, 0, false
	}
	nx := (x/p.Radius + 1) / 2
	ny := (1 - y/p.Radius) / 2
	if nx < 0 || nx >= 1 || ny < 0 || ny >= 1 {
		return 0, 0, false
	}
	return int(nx * float64(p.Width)), int(ny * float64(p.Height)), true
}

// DrawStars clears c and plots every star that lands inside the projection.
// It returns the number of stars drawn.
func DrawStars(c *Canvas, p Projection, stars []galaxy.Star) int {
	c.Clear()
	drawn := 0
	for _, s := range stars {
		px, py, ok := p.Project(s.Pos.X, s.Pos.Y)
		if !ok {
			continue
		}
		c.Plot(px, py, DisplayColor(s.Temperature, s.Brightness, 0.35), s.Brightness)
		drawn++
	}
	return drawn
}
