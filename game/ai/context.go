package ai

import (
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/pulse"
)

// Deferrer runs fn once, delay seconds of simulation time from now.
// Implemented by *scheduler.Scheduler.
type Deferrer interface {
	AddDelay(name string, delay float32, fn func())
}

// Shared is the read-mostly state the simulation loop owns and hands to
// every agent tick. Only the player side writes it.
type Shared struct {
	// LastKnownPlayerPosition is where the player last existed. It is written
	// every tick while the player is alive and never cleared.
	LastKnownPlayerPosition geom.Vec3
	// PlayerSpawned is false until the player has been placed once.
	PlayerSpawned bool
}

// TickContext is passed to every agent tick.
type TickContext struct {
	Now    float32
	Delta  float32
	Shared *Shared
	// Player is nil when no valid player exists. Agents must re-check
	// IsAlive before use.
	Player pulse.Listener
	Defer  Deferrer
}

// ScentTrail returns the shared last-known player position, if any.
func (c TickContext) ScentTrail() (geom.Vec3, bool) {
	if c.Shared == nil || !c.Shared.PlayerSpawned {
		return geom.Zero, false
	}
	return c.Shared.LastKnownPlayerPosition, true
}
