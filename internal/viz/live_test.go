package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestModel(t *testing.T) (Model, *galaxy.Controls) {
	t.Helper()
	engine := galaxy.NewEngine(galaxy.DefaultParams(), compute.NewSerialBackend())
	controls := galaxy.NewControls()
	m := NewModel(engine, controls, Options{Stars: 40, Seed: 7, Width: 30, Height: 15})
	return m, controls
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickAdvances(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.System().Star(0)

	m = update(m, TickMsg(time.Now()))

	if m.Ticks() != 1 {
		t.Errorf("expected 1 tick, got %d", m.Ticks())
	}
	if m.System().Star(0).Pos == before.Pos {
		t.Error("star did not move")
	}
	if len(m.energyHistory) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.energyHistory))
	}
}

func TestModelPause(t *testing.T) {
	for _, k := range []string{"p", " "} {
		m, controls := newTestModel(t)
		m = update(m, key(k))
		if !controls.Current().Paused {
			t.Fatalf("%q should pause", k)
		}

		before := m.System().Star(3)
		m = update(m, TickMsg(time.Now()))
		if m.Ticks() != 0 || m.System().Star(3) != before {
			t.Errorf("%q: paused tick changed state", k)
		}
		if !strings.Contains(m.View(), "PAUSED") {
			t.Errorf("%q: view should show paused", k)
		}
	}
}

func TestModelSpeedKeys(t *testing.T) {
	m, controls := newTestModel(t)

	m = update(m, key("f"))
	if got := controls.Current().Rate; got != galaxy.SpeedFactor {
		t.Errorf("rate after f = %v", got)
	}
	m = update(m, key("s"))
	m = update(m, key("s"))
	if got := controls.Current().Rate; got != 1/galaxy.SpeedFactor {
		t.Errorf("rate after f,s,s = %v", got)
	}
}

func TestModelRegenerate(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	first := m.System().Star(0)

	m = update(m, key("r"))
	if m.Seed() != 8 {
		t.Errorf("expected seed 8, got %d", m.Seed())
	}
	if m.Ticks() != 0 || m.Time() != 0 {
		t.Error("regenerate should reset the clock")
	}
	if m.System().Star(0) == first {
		t.Error("regenerate should build a new galaxy")
	}
	if m.System().Len() != 40 {
		t.Errorf("expected 40 stars, got %d", m.System().Len())
	}
}

func TestModelThemeAndHelp(t *testing.T) {
	m, _ := newTestModel(t)
	start := m.ThemeName()

	m = update(m, key("t"))
	if m.ThemeName() == start {
		t.Error("theme did not change")
	}

	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"GALAXY", "RUNNING", "SPECTRAL CLASS", "cpu-serial"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBar(t *testing.T) {
	if got := Bar(0.5, 4); got != "██░░" {
		t.Errorf("Bar(0.5,4) = %q", got)
	}
	if got := Bar(2, 2); got != "██" {
		t.Errorf("Bar clamps high: %q", got)
	}
	if got := Bar(-1, 2); got != "░░" {
		t.Errorf("Bar clamps low: %q", got)
	}
}

func TestModelRegenerateAfterHalt(t *testing.T) {
	m, controls := newTestModel(t)

	// the next position update overflows
	runaway, err := galaxy.NewSystem([]galaxy.Star{
		{Pos: r2.Vec{X: 1.7e308}, Vel: r2.Vec{X: 1.7e308}, Mass: 1},
	})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	m.sys = runaway

	m = update(m, TickMsg(time.Now()))
	if m.Err() == nil {
		t.Fatal("expected the overflowing tick to halt the view")
	}
	if !controls.Current().Paused {
		t.Fatal("halt should pause the controls")
	}
	if !strings.Contains(m.View(), "HALTED") {
		t.Error("view should show halted")
	}

	m = update(m, key("r"))
	if m.Err() != nil {
		t.Fatalf("regenerate kept the error: %v", m.Err())
	}
	if controls.Current().Paused {
		t.Error("regenerate after a halt should resume")
	}

	m = update(m, TickMsg(time.Now()))
	if m.Ticks() != 1 {
		t.Errorf("expected the new galaxy to advance, ticks = %d", m.Ticks())
	}
}

func TestModelRegenerateKeepsUserPause(t *testing.T) {
	m, controls := newTestModel(t)
	m = update(m, key("p"))
	m = update(m, key("r"))
	if !controls.Current().Paused {
		t.Error("regenerate should not undo a user pause")
	}
}
