package monster

import (
	"sort"

	"github.com/pikol93/CJ12/game/geom"
)

// StateKind names a behaviour state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateWalk
	StateChase
	StateKill
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "IDLE"
	case StateWalk:
		return "WALK"
	case StateChase:
		return "CHASE"
	case StateKill:
		return "KILL"
	}
	return "UNKNOWN"
}

// MarshalText lets StateKind appear by name in JSON.
func (k StateKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// State is one of Idle, Walk, Chase or Kill. Each variant carries only the
// data valid in that state.
type State interface {
	Kind() StateKind
}

// Idle stands still until the idle timer runs out.
type Idle struct{}

// Walk heads for a waypoint.
type Walk struct {
	Target geom.Vec3
}

// Chase runs to where the player was last detected.
type Chase struct {
	LastKnownPlayerPosition geom.Vec3
}

// Kill holds the monster at Offset from the player until the kill animation
// completes. Terminal.
type Kill struct {
	Offset   geom.Vec3
	Reported bool
}

func (Idle) Kind() StateKind  { return StateIdle }
func (Walk) Kind() StateKind  { return StateWalk }
func (Chase) Kind() StateKind { return StateChase }
func (Kill) Kind() StateKind  { return StateKill }

// onDetection moves to Chase toward pos. A kill in progress is never
// interrupted; an ongoing chase just retargets.
func onDetection(s State, pos geom.Vec3) State {
	if _, ok := s.(Kill); ok {
		return s
	}
	return Chase{LastKnownPlayerPosition: pos}
}

// onKillZone enters Kill holding offset from the player. Already-killing
// monsters keep their state.
func onKillZone(s State, offset geom.Vec3) State {
	if _, ok := s.(Kill); ok {
		return s
	}
	return Kill{Offset: offset}
}

// onIdleExpired picks the next patrol target. With no waypoints the monster
// stays idle.
func onIdleExpired(from geom.Vec3, waypoints []geom.Vec3) State {
	target, ok := selectWaypoint(from, waypoints)
	if !ok {
		return Idle{}
	}
	return Walk{Target: target}
}

// onArrived ends a walk or a chase.
func onArrived(s State) State {
	switch s.(type) {
	case Walk, Chase:
		return Idle{}
	}
	return s
}

// selectWaypoint returns the second-nearest waypoint to from. The nearest is
// usually where the monster is already standing. A single waypoint is
// returned as-is; equal distances keep list order.
func selectWaypoint(from geom.Vec3, waypoints []geom.Vec3) (geom.Vec3, bool) {
	switch len(waypoints) {
	case 0:
		return geom.Zero, false
	case 1:
		return waypoints[0], true
	}
	sorted := make([]geom.Vec3, len(waypoints))
	copy(sorted, waypoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return from.DistanceTo(sorted[i]) < from.DistanceTo(sorted[j])
	})
	return sorted[1], true
}
