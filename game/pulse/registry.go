package pulse

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/pikol93/CJ12/game/geom"
)

// DefaultRegistryLimit is the per-registry cap on stored events. It is far
// above what any emitter produces between prunes (a running player at 60 TPS
// emits a few footsteps per second with lifetimes of a few seconds).
const DefaultRegistryLimit = 4096

var (
	ErrInvalidVelocity = errors.New("pulse: velocity must be > 0")
	ErrInvalidLifetime = errors.New("pulse: max lifetime must be > 0")
	ErrRegistryFull    = errors.New("pulse: registry full")
)

// Verdict tells Scan what to do with the visited event.
type Verdict int

const (
	Keep Verdict = iota
	// Consume removes the event because a listener claimed it.
	Consume
	// Discard removes the event because it expired.
	Discard
)

type entry struct {
	ev   Event
	dead bool
}

// Registry is the set of live pulses emitted by one agent. It is owned by
// that agent; only the detector removes events from a registry it does not own.
// Not safe for concurrent use; the simulation is single-threaded.
type Registry struct {
	owner   string
	clock   *Clock
	limit   int
	entries []entry // oldest first; traversal is newest first
}

// NewRegistry creates an empty registry stamped by clock.
func NewRegistry(owner string, clock *Clock) *Registry {
	return &Registry{owner: owner, clock: clock, limit: DefaultRegistryLimit}
}

// SetLimit overrides the event cap. Values <= 0 restore the default.
func (r *Registry) SetLimit(n int) {
	if n <= 0 {
		n = DefaultRegistryLimit
	}
	r.limit = n
}

// Owner returns the emitting agent's identifier.
func (r *Registry) Owner() string { return r.owner }

// Emit records a new pulse at the current clock time.
func (r *Registry) Emit(kind Kind, origin geom.Vec3, velocity, maxLifetime float32) (Event, error) {
	if !(velocity > 0) || math.IsInf(float64(velocity), 0) {
		return Event{}, fmt.Errorf("%s %s: %w (got %v)", r.owner, kind, ErrInvalidVelocity, velocity)
	}
	if !(maxLifetime > 0) {
		return Event{}, fmt.Errorf("%s %s: %w (got %v)", r.owner, kind, ErrInvalidLifetime, maxLifetime)
	}
	if len(r.entries) >= r.limit {
		return Event{}, fmt.Errorf("%s %s: %w (%d events)", r.owner, kind, ErrRegistryFull, len(r.entries))
	}
	ev := Event{
		ID:          uuid.New(),
		Kind:        kind,
		Origin:      origin,
		CreatedAt:   r.clock.Now(),
		Velocity:    velocity,
		MaxLifetime: maxLifetime,
	}
	r.entries = append(r.entries, entry{ev: ev})
	return ev, nil
}

// PruneExpired removes every event older than its lifetime and returns how
// many were removed. Calling it twice with the same now is a no-op.
func (r *Registry) PruneExpired(now float32) int {
	return r.Scan(func(ev Event) Verdict {
		if ev.Expired(now) {
			return Discard
		}
		return Keep
	})
}

// Scan visits every stored event, newest first, including expired events not
// yet pruned. Events removed by fn are gone when Scan returns. Events emitted
// from inside fn are kept but not visited. Returns the number removed.
func (r *Registry) Scan(fn func(Event) Verdict) int {
	n := len(r.entries)
	removed := 0
	for i := n - 1; i >= 0; i-- {
		if r.entries[i].dead {
			continue
		}
		if fn(r.entries[i].ev) != Keep {
			r.entries[i].dead = true
			removed++
		}
	}
	if removed > 0 {
		r.compact()
	}
	return removed
}

// ForEachLive visits non-expired events newest first. Returning true from fn
// consumes the event.
func (r *Registry) ForEachLive(fn func(Event) bool) {
	now := r.clock.Now()
	r.Scan(func(ev Event) Verdict {
		if ev.Expired(now) {
			return Keep
		}
		if fn(ev) {
			return Consume
		}
		return Keep
	})
}

// Events returns a copy of the stored events, newest first.
func (r *Registry) Events() []Event {
	out := make([]Event, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i].ev)
	}
	return out
}

// Len returns the number of stored events.
func (r *Registry) Len() int { return len(r.entries) }

// Clear drops every event, e.g. when the owner is destroyed.
func (r *Registry) Clear() { r.entries = r.entries[:0] }

func (r *Registry) compact() {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !e.dead {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = entry{}
	}
	r.entries = kept
}
