package galaxy

import "sync"

// Control is the per-tick view of the user's playback settings.
type Control struct {
	Rate   float64
	Paused bool
}

// DefaultControl runs at native speed.
func DefaultControl() Control {
	return Control{Rate: 1.0}
}

func (c Control) Current() Control { return c }

// ControlSource yields the Control to apply to the next tick.
type ControlSource interface {
	Current() Control
}

// Controls is shared between an input handler and the simulation loop.
// Current returns a consistent pair even while another goroutine writes.
type Controls struct {
	mu     sync.Mutex
	rate   float64
	paused bool
}

func NewControls() *Controls {
	return &Controls{rate: 1.0}
}

func (c *Controls) Current() Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Control{Rate: c.rate, Paused: c.paused}
}

func (c *Controls) SpeedUp() {
	c.mu.Lock()
	c.rate *= SpeedFactor
	c.mu.Unlock()
}

func (c *Controls) SlowDown() {
	c.mu.Lock()
	c.rate /= SpeedFactor
	c.mu.Unlock()
}

func (c *Controls) TogglePause() {
	c.mu.Lock()
	c.paused = !c.paused
	c.mu.Unlock()
}

func (c *Controls) SetPaused(paused bool) {
	c.mu.Lock()
	c.paused = paused
	c.mu.Unlock()
}

// SetRate ignores non-positive values.
func (c *Controls) SetRate(rate float64) {
	if !isFinite(rate) || rate <= 0 {
		return
	}
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()
}

// Reset restores native speed and unpauses.
func (c *Controls) Reset() {
	c.mu.Lock()
	c.rate = 1.0
	c.paused = false
	c.mu.Unlock()
}
