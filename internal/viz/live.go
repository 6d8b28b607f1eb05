package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/render"
)

const (
	defaultWidth    = 80
	defaultHeight   = 40
	sidebarWidth    = 48
	historyCapacity = 600
)

type TickMsg time.Time

// Options configures a live view.
type Options struct {
	Stars int
	// Seed of the first galaxy; zero draws a time-based seed.
	Seed          int64
	Dt            float64
	FrameInterval time.Duration
	Width, Height int
	Theme         string
}

// Model contains simulation state, visualization buffers, and UI context.
type Model struct {
	engine   *galaxy.Engine
	controls *galaxy.Controls
	sys      *galaxy.System
	params   galaxy.Params

	opts  Options
	seed  int64
	t     float64
	ticks int
	err   error

	canvas *render.Canvas
	proj   render.Projection

	energyHistory []float64

	theme    Theme
	styles   styles
	showHelp bool
}

// NewModel builds a live view driving engine. The controls are shared
// with the caller, which may adjust them from outside the program.
func NewModel(engine *galaxy.Engine, controls *galaxy.Controls, opts Options) Model {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 16 * time.Millisecond
	}
	if opts.Dt <= 0 {
		opts.Dt = galaxy.DefaultTimeStep
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if controls == nil {
		controls = galaxy.NewControls()
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		engine:        engine,
		controls:      controls,
		params:        engine.ForceModel().Params(),
		opts:          opts,
		seed:          opts.Seed,
		energyHistory: make([]float64, 0, historyCapacity),
		theme:         theme,
		styles:        newStyles(theme),
	}
	m.resize(opts.Width, opts.Height)
	m.generate()
	return m
}

func (m *Model) generate() {
	m.t = 0
	m.ticks = 0
	m.err = nil
	in, err := galaxy.NewInitializer(m.params, rand.New(rand.NewSource(m.seed)))
	if err != nil {
		m.err = err
		m.sys, _ = galaxy.NewSystem(nil)
	} else {
		m.sys = in.Generate(m.opts.Stars)
	}
	m.energyHistory = m.energyHistory[:0]
	m.record()
}

func (m *Model) resize(w, h int) {
	m.canvas = render.NewCanvas(w, h)
	m.proj = render.NewProjection(m.params.GalaxyRadius, m.canvas)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "f":
			m.controls.SpeedUp()
		case "s":
			m.controls.SlowDown()
		case "p", " ":
			m.controls.TogglePause()
		case "r":
			halted := m.err != nil
			m.seed++
			m.generate()
			if halted && m.err == nil {
				m.controls.SetPaused(false)
			}
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := (msg.Width - sidebarWidth - 4)
		h := msg.Height - 2
		if w > 10 && h > 5 {
			// keep the disk round: a cell is about twice as tall as wide
			if w > 2*h {
				w = 2 * h
			} else {
				h = w / 2
			}
			m.resize(w, h)
		}
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// step advances the galaxy by one tick. A failed tick pauses the view and
// keeps the last good state on screen.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	ctl := m.controls.Current()
	if err := m.engine.Tick(m.sys, m.opts.Dt, ctl); err != nil {
		m.err = err
		m.controls.SetPaused(true)
		return
	}
	if ctl.Paused {
		return
	}
	m.ticks++
	m.t += m.opts.Dt
	m.record()
}

func (m *Model) record() {
	m.energyHistory = append(m.energyHistory, galaxy.KineticEnergy(m.sys))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// System exposes the simulated galaxy.
func (m Model) System() *galaxy.System { return m.sys }

func (m Model) Ticks() int        { return m.ticks }
func (m Model) Time() float64     { return m.t }
func (m Model) Err() error        { return m.err }
func (m Model) Seed() int64       { return m.seed }
func (m Model) ThemeName() string { return m.theme.Name }

// View renders the TUI interface.
func (m Model) View() string {
	stars := m.sys.Snapshot(nil)
	drawn := render.DrawStars(m.canvas, m.proj, stars)
	canvasView := canvasStyle.Render(m.canvas.Render())

	bands := make(map[string]int, len(render.Bands))
	for _, s := range stars {
		bands[render.Classify(s.Temperature)]++
	}

	st := m.styles
	ctl := m.controls.Current()

	var s strings.Builder
	s.WriteString(st.header.Render("GALAXY") + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("HALTED") + "\n")
		s.WriteString(st.value.Render(m.err.Error()) + "\n\n")
	case ctl.Paused:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Stars", fmt.Sprintf("%d (%d visible)", m.sys.Len(), drawn))
	row("Ticks", fmt.Sprintf("%d", m.ticks))
	row("Time", fmt.Sprintf("%.1f", m.t))
	row("Rate", fmt.Sprintf("x%.3g", ctl.Rate))
	row("Seed", fmt.Sprintf("%d", m.seed))
	row("Backend", m.engine.ForceModel().Backend().Name())

	s.WriteString("\nSPECTRAL CLASS\n")
	n := m.sys.Len()
	for _, b := range render.Bands {
		frac := 0.0
		if n > 0 {
			frac = float64(bands[b.Name]) / float64(n)
		}
		color := lipgloss.Color(render.StarColor(b.Min+1, 1).Hex())
		bar := lipgloss.NewStyle().Foreground(color).Render(Bar(frac, 12))
		s.WriteString(fmt.Sprintf("  %-7s %s %4d\n", b.Name, bar, bands[b.Name]))
	}

	s.WriteString(st.help.Render("\n─────────────────────\nF:Faster S:Slower P:Pause\nR:Regenerate T:Theme ?:Help Q:Quit"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  F        - Speed up (x1.5)          ║
║  S        - Slow down (/1.5)         ║
║  P/Space  - Pause/Resume             ║
║  R        - Regenerate galaxy        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
