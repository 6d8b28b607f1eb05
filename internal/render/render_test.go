package render

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(blank|0x1|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank {
		t.Errorf("neighbour cell touched")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != rune(blank|0x80) {
		t.Errorf("unset failed: %U", c.Grid[0][0])
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
}

func TestCanvasPlotBrightestWins(t *testing.T) {
	c := NewCanvas(1, 1)
	dim := colorful.Color{R: 0.1}
	bright := colorful.Color{B: 1}

	c.Plot(0, 0, dim, 0.2)
	c.Plot(1, 1, bright, 0.9)
	c.Plot(0, 2, dim, 0.5)

	got, ok := c.Color(0, 0)
	if !ok || got != bright {
		t.Errorf("expected brightest color, got %v (%v)", got, ok)
	}

	c.Clear()
	if _, ok := c.Color(0, 0); ok {
		t.Error("clear should reset colors")
	}
	if c.String() != string(rune(blank))+"\n" {
		t.Errorf("clear should reset dots: %q", c.String())
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Plot(0, 0, colorful.Color{R: 1}, 1)
	out := c.Render()
	if lines := strings.Count(out, "\n"); lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
	if !strings.ContainsRune(out, rune(blank|0x1)) {
		t.Error("plotted dot missing from render")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		temp float64
		want string
	}{
		{33000, "blue"},
		{20001, "blue"},
		{20000, "white"},
		{10001, "white"},
		{10000, "yellow"},
		{6000, "orange"},
		{4001, "orange"},
		{4000, "red"},
		{3000, "red"},
	}
	for _, tc := range cases {
		if got := Classify(tc.temp); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.temp, got, tc.want)
		}
	}
}

func TestStarColor(t *testing.T) {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

	c := StarColor(25000, 0.5)
	if !near(c.R, 0.25) || !near(c.G, 0.25) || !near(c.B, 0.5) {
		t.Errorf("blue band wrong: %+v", c)
	}

	c = StarColor(5000, 1)
	if !near(c.R, 0.9) || !near(c.G, 0.6) || !near(c.B, 0.3) {
		t.Errorf("orange band wrong: %+v", c)
	}

	c = StarColor(3500, 0)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("zero brightness should be black: %+v", c)
	}
}

func TestProjection(t *testing.T) {
	p := Projection{Radius: 50, Width: 100, Height: 100}

	x, y, ok := p.Project(0, 0)
	if !ok || x != 50 || y != 50 {
		t.Errorf("origin -> (%d,%d,%v)", x, y, ok)
	}
	x, y, ok = p.Project(-50, 50)
	if !ok || x != 0 || y != 0 {
		t.Errorf("top-left -> (%d,%d,%v)", x, y, ok)
	}
	if _, _, ok := p.Project(60, 0); ok {
		t.Error("point outside radius should not project")
	}
	if _, _, ok := (Projection{}).Project(0, 0); ok {
		t.Error("zero projection should reject")
	}
}

func TestDrawStars(t *testing.T) {
	c := NewCanvas(10, 5)
	p := NewProjection(50, c)
	stars := []galaxy.Star{
		{Pos: r2.Vec{X: 0, Y: 0}, Mass: 1, Brightness: 1, Temperature: 30000},
		{Pos: r2.Vec{X: 10, Y: -10}, Mass: 1, Brightness: 0.8, Temperature: 3500},
		{Pos: r2.Vec{X: 500, Y: 0}, Mass: 1, Brightness: 0.1, Temperature: 3500},
	}
	if n := DrawStars(c, p, stars); n != 2 {
		t.Errorf("expected 2 drawn, got %d", n)
	}
}
