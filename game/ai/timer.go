package ai

// ForcedRemaining is the countdown value a forced trigger installs. Any
// positive delta takes it below zero, so the timer fires on the next poll.
const ForcedRemaining float32 = -1e9

// Rand is the random source timers draw from. *math/rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Range is an interval in seconds for a randomized timer.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Draw returns a uniform value in [Min, Max). A degenerate range returns Min.
func (r Range) Draw(rng Rand) float32 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// Valid reports whether the range is usable as a countdown interval.
func (r Range) Valid() bool { return r.Min >= 0 && r.Max >= r.Min }

// Timer is a randomized countdown. It is a value: Tick returns the next state
// instead of mutating, so callers decide when to store it.
type Timer struct {
	Remaining float32 `json:"remaining"`
}

// NewTimer draws a fresh countdown from r.
func NewTimer(r Range, rng Rand) Timer {
	return Timer{Remaining: r.Draw(rng)}
}

// Tick counts down by delta. When the countdown drops below zero the timer
// fires and the returned timer is re-armed with a new draw from r.
func (t Timer) Tick(delta float32, r Range, rng Rand) (fired bool, next Timer) {
	rem := t.Remaining - delta
	if rem < 0 {
		return true, NewTimer(r, rng)
	}
	return false, Timer{Remaining: rem}
}

// Force returns a timer that fires on its next Tick.
func (t Timer) Force() Timer {
	return Timer{Remaining: ForcedRemaining}
}
