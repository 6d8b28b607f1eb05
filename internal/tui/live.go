package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/render"
)

const (
	width       = 60
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a headless run in the terminal at most frameRate
// times per second. It satisfies sim.Observer.
type LiveRenderer struct {
	out       io.Writer
	steps     int
	frameRate int
	lastFrame time.Time
	canvas    *render.Canvas
	proj      render.Projection
	stars     []galaxy.Star
	frames    int
}

func NewLiveRenderer(radius float64, steps, frameRate int) *LiveRenderer {
	return newLiveRenderer(os.Stdout, radius, steps, frameRate)
}

func newLiveRenderer(out io.Writer, radius float64, steps, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := render.NewCanvas(width, height)
	return &LiveRenderer{
		out:       out,
		steps:     steps,
		frameRate: frameRate,
		canvas:    canvas,
		proj:      render.NewProjection(radius, canvas),
	}
}

func (r *LiveRenderer) OnStep(sys *galaxy.System, step int, t float64, ctl galaxy.Control) {
	done := step + 1
	last := r.steps > 0 && done >= r.steps
	if !last && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.stars = sys.Snapshot(r.stars)
	drawn := render.DrawStars(r.canvas, r.proj, r.stars)
	r.render(sys, done, t, drawn, ctl)
	r.frames++
}

// Frames reports how many frames were drawn.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) render(sys *galaxy.System, done int, t float64, drawn int, ctl galaxy.Control) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  galaxy  step %d/%d  t=%.1f  rate x%.3g\n", done, r.steps, t, ctl.Rate))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  %d stars in view  KE=%.4g\n", drawn, galaxy.KineticEnergy(sys)))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
