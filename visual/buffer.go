package visual

import (
	"github.com/pikol93/CJ12/game/geom"
)

// DefaultCapacity matches the size of the renderer's uniform arrays.
const DefaultCapacity = 256

type stamped struct {
	Pulse
	CreatedAt float32
}

// Clock supplies timestamps for buffered pulses.
type Clock interface {
	Now() float32
}

// Buffer keeps the newest visual pulses for upload to the renderer. When full,
// the oldest pulse is dropped: the renderer can only show Capacity rings, and
// gameplay detection does not read from here.
type Buffer struct {
	clock          Clock
	capacity       int
	pulses         []stamped // newest first
	forceEdgeCheck bool
	dirty          bool
}

// NewBuffer creates a buffer. capacity <= 0 uses DefaultCapacity.
func NewBuffer(clock Clock, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{clock: clock, capacity: capacity, dirty: true}
}

// EmitVisualPulse implements Sink.
func (b *Buffer) EmitVisualPulse(p Pulse) {
	s := stamped{Pulse: p, CreatedAt: b.clock.Now()}
	if len(b.pulses) < b.capacity {
		b.pulses = append(b.pulses, stamped{})
	}
	copy(b.pulses[1:], b.pulses[:len(b.pulses)-1])
	b.pulses[0] = s
	b.dirty = true
}

// Prune drops pulses older than their lifetime.
func (b *Buffer) Prune(now float32) int {
	kept := b.pulses[:0]
	for _, p := range b.pulses {
		if now-p.CreatedAt <= p.MaxLifetime {
			kept = append(kept, p)
		}
	}
	removed := len(b.pulses) - len(kept)
	b.pulses = kept
	if removed > 0 {
		b.dirty = true
	}
	return removed
}

// Erase clears every pulse, e.g. on scene reload.
func (b *Buffer) Erase() {
	b.pulses = b.pulses[:0]
	b.dirty = true
}

// SetForceEdgeCheck toggles the debug flag that makes the monster outline
// visible regardless of pulses.
func (b *Buffer) SetForceEdgeCheck(enabled bool) {
	b.forceEdgeCheck = enabled
	b.dirty = true
}

// Len returns the number of buffered pulses.
func (b *Buffer) Len() int { return len(b.pulses) }

// Dirty reports whether Uniforms would differ from the last upload.
func (b *Buffer) Dirty() bool { return b.dirty }

// Uniforms is the fixed-size parallel-array layout the renderer consumes.
// Unused slots are zero.
type Uniforms struct {
	Positions      []geom.Vec3 `json:"pulse_positions"`
	Timestamps     []float32   `json:"pulse_timestamps"`
	Velocities     []float32   `json:"pulse_velocities"`
	MaxRanges      []float32   `json:"pulse_max_ranges"`
	MaxLifetimes   []float32   `json:"pulse_max_lifetimes"`
	Types          []int       `json:"pulse_types"`
	ColorOverrides []geom.Vec3 `json:"pulse_color_overrides"`
	ForceEdgeCheck bool        `json:"force_edge_check"`
}

// Uniforms builds the upload arrays and clears the dirty flag.
func (b *Buffer) Uniforms() Uniforms {
	n := b.capacity
	u := Uniforms{
		Positions:      make([]geom.Vec3, n),
		Timestamps:     make([]float32, n),
		Velocities:     make([]float32, n),
		MaxRanges:      make([]float32, n),
		MaxLifetimes:   make([]float32, n),
		Types:          make([]int, n),
		ColorOverrides: make([]geom.Vec3, n),
		ForceEdgeCheck: b.forceEdgeCheck,
	}
	for i, p := range b.pulses {
		u.Positions[i] = p.Origin
		u.Timestamps[i] = p.CreatedAt
		u.Velocities[i] = p.Velocity
		u.MaxRanges[i] = p.Range
		u.MaxLifetimes[i] = p.MaxLifetime
		u.Types[i] = int(p.Style.Type)
		u.ColorOverrides[i] = p.Style.Color.RGB()
	}
	b.dirty = false
	return u
}

// ForceEdgeCheck reports the debug outline flag.
func (b *Buffer) ForceEdgeCheck() bool { return b.forceEdgeCheck }
