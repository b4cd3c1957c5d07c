package pulse

// Clock accumulates simulation time in seconds. It is advanced exactly once
// per tick by the owning simulation loop; everything else only reads it.
type Clock struct {
	now float32
}

// NewClock returns a clock starting at t=0.
func NewClock() *Clock { return &Clock{} }

// Advance moves the clock forward by delta seconds. Negative deltas are
// ignored so time never runs backwards.
func (c *Clock) Advance(delta float32) {
	if delta <= 0 {
		return
	}
	c.now += delta
}

// Now returns the current simulation time.
func (c *Clock) Now() float32 { return c.now }
