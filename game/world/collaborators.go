package world

import (
	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/player"
	"github.com/pikol93/CJ12/game/pulse"
)

// GridBody moves a body by velocity*delta while keeping it out of blocked
// and off-grid cells. A nil Grid moves freely. A step ending in a closed cell
// is retried one axis at a time, so bodies slide along walls.
type GridBody struct {
	Grid *ai.Grid
}

func (b GridBody) Slide(from, velocity geom.Vec3, delta float32) geom.Vec3 {
	to := from.Add(velocity.Scale(delta))
	if b.Grid == nil || b.open(to) {
		return to
	}
	if x := geom.V(to.X, to.Y, from.Z); b.open(x) {
		return x
	}
	if z := geom.V(from.X, to.Y, to.Z); b.open(z) {
		return z
	}
	return from
}

func (b GridBody) open(p geom.Vec3) bool {
	c, ok := b.Grid.CellOf(p)
	return ok && b.Grid.Walkable(c.X, c.Y)
}

// Waypoints is a fixed patrol list.
type Waypoints []geom.Vec3

func (w Waypoints) ListWaypoints() []geom.Vec3 { return w }

// FollowAnchor tracks Target at a fixed offset, such as a monster's eyes.
type FollowAnchor struct {
	Target ai.Positioner
	Offset geom.Vec3
}

func (a *FollowAnchor) Position() geom.Vec3 {
	if a.Target == nil {
		return a.Offset
	}
	return a.Target.Position().Add(a.Offset)
}

// TimedAnimator stands in for the kill animation: it finishes a fixed number
// of simulation seconds after PlayKill.
type TimedAnimator struct {
	clock    *pulse.Clock
	duration float32
	started  float32
	playing  bool
}

func NewTimedAnimator(clock *pulse.Clock, duration float32) *TimedAnimator {
	return &TimedAnimator{clock: clock, duration: duration}
}

func (a *TimedAnimator) PlayKill() {
	if a.playing {
		return
	}
	a.playing = true
	a.started = a.clock.Now()
}

func (a *TimedAnimator) KillFinished() bool {
	return a.playing && a.clock.Now()-a.started >= a.duration
}

// ScriptedInput drives the player around a patrol loop in one movement mode,
// optionally firing the manual pulse on a fixed period. It stands in for a
// human at the keyboard in headless runs.
type ScriptedInput struct {
	Patrol       []geom.Vec3
	Mode         player.Mode
	PulseEvery   float32
	ArriveWithin float32

	next      int
	lastPulse float32
}

// NewScriptedInput builds the scripted input described by the scene config.
func NewScriptedInput(sc config.SceneConfig) (*ScriptedInput, error) {
	mode, err := player.ParseMode(sc.PlayerMode)
	if err != nil {
		return nil, err
	}
	return &ScriptedInput{
		Patrol:       sc.PlayerPatrol,
		Mode:         mode,
		PulseEvery:   sc.ManualPulseEvery,
		ArriveWithin: 0.5,
	}, nil
}

func (s *ScriptedInput) Next(now float32, pos geom.Vec3, yaw float32) player.Intent {
	in := player.Intent{Mode: s.Mode}
	if s.PulseEvery > 0 && now-s.lastPulse >= s.PulseEvery {
		s.lastPulse = now
		in.Pulse = true
	}
	if len(s.Patrol) == 0 {
		return in
	}
	target := s.Patrol[s.next%len(s.Patrol)]
	if pos.Horizontal().DistanceTo(target.Horizontal()) <= s.ArriveWithin {
		s.next = (s.next + 1) % len(s.Patrol)
		target = s.Patrol[s.next]
	}
	// Express the world direction in the player's local frame: X right,
	// Y forward (-Z at yaw 0).
	local := target.Sub(pos).Horizontal().RotateY(-yaw)
	in.Move = geom.V(local.X, -local.Z, 0).Normalized()
	return in
}
