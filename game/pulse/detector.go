package pulse

import (
	"fmt"

	"github.com/pikol93/CJ12/game/geom"
)

// Listener is anything a wavefront can reach: the player for monster echoes,
// monsters for the player's footsteps.
type Listener interface {
	Position() geom.Vec3
	IsAlive() bool
}

// ClaimPolicy decides which listener consumes an event that reaches several
// listeners in the same tick.
type ClaimPolicy int

const (
	// ClaimNearest gives the event to the closest reached listener; ties go to
	// the earlier listener in the slice.
	ClaimNearest ClaimPolicy = iota
	// ClaimFirst gives the event to the first reached listener in slice order.
	ClaimFirst
)

// ParseClaimPolicy maps a config string onto a policy.
func ParseClaimPolicy(s string) (ClaimPolicy, error) {
	switch s {
	case "", "nearest":
		return ClaimNearest, nil
	case "first":
		return ClaimFirst, nil
	}
	return ClaimNearest, fmt.Errorf("pulse: unknown claim policy %q", s)
}

func (p ClaimPolicy) String() string {
	if p == ClaimFirst {
		return "first"
	}
	return "nearest"
}

// Detection describes one event reaching one listener.
type Detection struct {
	Event            Event
	Listener         Listener
	ListenerPosition geom.Vec3
	Distance         float32
	At               float32
}

// Detector applies the wavefront test. It holds only tuning and is safe to
// reuse across registries.
type Detector struct {
	// Epsilon widens every wavefront by a fixed slack.
	Epsilon float32
	Policy  ClaimPolicy
}

// Detect runs the propagation test for every event in reg against listeners.
// Expired events are discarded without firing. Each event fires at most once
// and is removed from reg before fire is called. Returns the number of
// detections fired.
func (d Detector) Detect(reg *Registry, now float32, listeners []Listener, fire func(Detection)) int {
	fired := 0
	var hits []Detection
	reg.Scan(func(ev Event) Verdict {
		if ev.Expired(now) {
			return Discard
		}
		radius := ev.Radius(now, d.Epsilon)
		best := -1
		var bestPos geom.Vec3
		var bestDist float32
		for i, l := range listeners {
			if l == nil || !l.IsAlive() {
				continue
			}
			pos := l.Position()
			dist := ev.Origin.DistanceTo(pos)
			if !(dist < radius) {
				continue
			}
			if best == -1 || (d.Policy == ClaimNearest && dist < bestDist) {
				best, bestPos, bestDist = i, pos, dist
			}
			if d.Policy == ClaimFirst {
				break
			}
		}
		if best == -1 {
			return Keep
		}
		hits = append(hits, Detection{
			Event:            ev,
			Listener:         listeners[best],
			ListenerPosition: bestPos,
			Distance:         bestDist,
			At:               now,
		})
		return Consume
	})
	for _, h := range hits {
		fire(h)
		fired++
	}
	return fired
}

// DetectOne is Detect for a single listener.
func (d Detector) DetectOne(reg *Registry, now float32, l Listener, fire func(Detection)) int {
	return d.Detect(reg, now, []Listener{l}, fire)
}
