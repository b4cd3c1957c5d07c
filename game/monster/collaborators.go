package monster

import (
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
)

//go:generate go tool mockgen -source=collaborators.go -destination=mocks/collaborators_mock.go -package=mocks

// Navigator answers "next step toward target" queries.
type Navigator interface {
	SetTarget(target geom.Vec3)
	NextStepPosition() geom.Vec3
}

// Body resolves movement against the level (character controller).
type Body interface {
	Slide(from, velocity geom.Vec3, delta float32) geom.Vec3
}

// Animator drives the monster's kill animation.
type Animator interface {
	PlayKill()
	KillFinished() bool
}

// DeathSink is the player-side collaborator told about a kill.
type DeathSink interface {
	// OnMonsterKillLock suspends player control; the camera orbits eyes.
	OnMonsterKillLock(eyes ai.Positioner)
	// OnKillAnimationComplete ends the run.
	OnKillAnimationComplete()
}

// WaypointSource lists patrol points. Queried on every IDLE to WALK transition.
type WaypointSource interface {
	ListWaypoints() []geom.Vec3
}
