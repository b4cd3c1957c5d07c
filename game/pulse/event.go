// Package pulse implements the acoustic wavefront model: time-stamped pulse
// events owned by an emitter's registry, and the detector that decides when an
// expanding wavefront has reached a listener.
package pulse

import (
	"github.com/google/uuid"

	"github.com/pikol93/CJ12/game/geom"
)

// Kind tags what produced a pulse. It never changes detection math.
type Kind int

const (
	KindFootstep Kind = iota
	KindManual
	KindRoar
	KindEcho
	KindAmbient
)

func (k Kind) String() string {
	switch k {
	case KindFootstep:
		return "footstep"
	case KindManual:
		return "manual"
	case KindRoar:
		return "roar"
	case KindEcho:
		return "echo"
	case KindAmbient:
		return "ambient"
	}
	return "unknown"
}

// Event is one emitted wavefront. Origin, CreatedAt and Velocity are fixed at
// emission; events are handed out by value so nothing downstream can mutate them.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	Origin      geom.Vec3 `json:"origin"`
	CreatedAt   float32   `json:"created_at"`
	Velocity    float32   `json:"velocity"`
	MaxLifetime float32   `json:"max_lifetime"`
}

// Age returns the seconds elapsed since emission.
func (e Event) Age(now float32) float32 { return now - e.CreatedAt }

// Expired reports whether the event has outlived MaxLifetime.
func (e Event) Expired(now float32) bool { return e.Age(now) > e.MaxLifetime }

// Radius is the wavefront radius at time now. A positive epsilon widens the
// detection sphere so listeners are reached slightly early.
func (e Event) Radius(now, epsilon float32) float32 {
	return e.Age(now)*e.Velocity + epsilon
}

// Reaches reports whether the wavefront strictly contains p at time now.
// A point exactly on the ring is not yet reached.
func (e Event) Reaches(p geom.Vec3, now, epsilon float32) bool {
	return e.Origin.DistanceTo(p) < e.Radius(now, epsilon)
}

// LifetimeForRange derives the lifetime that lets a pulse travel rng units.
func LifetimeForRange(rng, velocity float32) float32 {
	if velocity <= 0 {
		return 0
	}
	return rng / velocity
}
