package galaxy

import (
	"math"
	"sync"
	"testing"
)

func TestControls_Commands(t *testing.T) {
	c := NewControls()
	if got := c.Current(); got.Rate != 1 || got.Paused {
		t.Fatalf("default control = %+v", got)
	}

	c.SpeedUp()
	c.SpeedUp()
	if got := c.Current().Rate; math.Abs(got-2.25) > 1e-12 {
		t.Errorf("rate after two speed-ups = %f, want 2.25", got)
	}

	c.SlowDown()
	c.SlowDown()
	c.SlowDown()
	if got := c.Current().Rate; math.Abs(got-1/1.5) > 1e-12 {
		t.Errorf("rate after three slow-downs = %f, want %f", got, 1/1.5)
	}

	c.TogglePause()
	if !c.Current().Paused {
		t.Error("expected paused after toggle")
	}
	c.TogglePause()
	if c.Current().Paused {
		t.Error("expected running after second toggle")
	}

	c.SetRate(-3)
	c.SetRate(math.NaN())
	if got := c.Current().Rate; math.Abs(got-1/1.5) > 1e-12 {
		t.Errorf("invalid SetRate changed rate to %f", got)
	}
	c.SetRate(4)
	c.SetPaused(true)
	if got := c.Current(); got.Rate != 4 || !got.Paused {
		t.Errorf("control = %+v", got)
	}

	c.Reset()
	if got := c.Current(); got != DefaultControl() {
		t.Errorf("after Reset control = %+v", got)
	}
}

func TestControls_ConcurrentAccess(t *testing.T) {
	c := NewControls()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.SpeedUp()
			c.SlowDown()
			c.TogglePause()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if r := c.Current().Rate; r <= 0 {
				t.Errorf("observed non-positive rate %f", r)
				return
			}
		}
	}()
	wg.Wait()

	if c.Current().Paused {
		t.Error("even number of toggles should leave controls running")
	}
}

func TestControlSource(t *testing.T) {
	var src ControlSource = Control{Rate: 3}
	if src.Current().Rate != 3 {
		t.Error("Control does not report itself")
	}
	src = NewControls()
	if src.Current().Rate != 1 {
		t.Error("Controls default rate should be 1")
	}
}
