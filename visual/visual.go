// Package visual carries pulses to whatever draws them. Nothing here feeds
// back into detection.
package visual

import "github.com/pikol93/CJ12/game/geom"

// PulseType selects how the renderer draws a pulse.
type PulseType int

const (
	PulseNormal PulseType = iota
	// PulseOnlyRing draws only the leading ring, used for roar follow-ups.
	PulseOnlyRing
)

func (t PulseType) String() string {
	if t == PulseOnlyRing {
		return "only_ring"
	}
	return "normal"
}

// ColorOverride tints a pulse.
type ColorOverride int

const (
	ColorNone ColorOverride = iota
	ColorWhite
	ColorRed
)

func (c ColorOverride) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorRed:
		return "red"
	}
	return "none"
}

// RGB returns the override colour as it is uploaded to the shader.
func (c ColorOverride) RGB() geom.Vec3 {
	switch c {
	case ColorWhite:
		return geom.V(1, 1, 1)
	case ColorRed:
		return geom.V(1, 0, 0)
	}
	return geom.Zero
}

// Style is the set of style flags attached to a visual pulse.
type Style struct {
	Type  PulseType     `json:"type"`
	Color ColorOverride `json:"color"`
}

// Pulse is one visual pulse as handed to a Sink.
type Pulse struct {
	Origin      geom.Vec3 `json:"origin"`
	Velocity    float32   `json:"velocity"`
	Range       float32   `json:"range"`
	MaxLifetime float32   `json:"max_lifetime"`
	Style       Style     `json:"style"`
	Source      string    `json:"source,omitempty"`
}

// Sink receives visual pulses. Fire-and-forget.
type Sink interface {
	EmitVisualPulse(p Pulse)
}

// Multi fans a pulse out to several sinks.
type Multi []Sink

func (m Multi) EmitVisualPulse(p Pulse) {
	for _, s := range m {
		if s != nil {
			s.EmitVisualPulse(p)
		}
	}
}

// Discard drops every pulse.
type Discard struct{}

func (Discard) EmitVisualPulse(Pulse) {}
