package player

import (
	"errors"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/pulse"
	"github.com/pikol93/CJ12/visual"
)

var (
	ErrControlLocked = errors.New("player: control is locked")
	ErrMissingInput  = errors.New("player: input source is required")
	ErrMissingBody   = errors.New("player: body is required")
)

// Intent is one tick of player input.
type Intent struct {
	// Move is the local movement axis: X strafes right, Y walks forward.
	Move geom.Vec3
	Mode Mode
	// Look is the horizontal mouse delta in pixels.
	Look float32
	// Pulse requests a manual pulse this tick.
	Pulse bool
}

// InputSource produces player intents.
type InputSource interface {
	Next(now float32, pos geom.Vec3, yaw float32) Intent
}

// Body resolves the player's movement against the level.
type Body interface {
	Slide(from, velocity geom.Vec3, delta float32) geom.Vec3
}

// Agent is the player in the scene. It is a pulse listener for monster echoes
// and the death sink monsters report kills to.
type Agent struct {
	pos      geom.Vec3
	velocity geom.Vec3
	yaw      float32
	mode     Mode

	alive      bool
	controlled bool
	lookAt     ai.Positioner

	registry   *pulse.Registry
	controller *Controller
	input      InputSource
	body       Body
	logger     *zap.Logger
	cfg        config.PlayerConfig

	onDeath func()
}

// NewAgent places a controllable player at spawn. Its own registry holds
// footstep and manual pulses.
func NewAgent(spawn geom.Vec3, cfg config.PlayerConfig, clock *pulse.Clock, input InputSource, body Body, sink visual.Sink, logger *zap.Logger) (*Agent, error) {
	if input == nil {
		return nil, ErrMissingInput
	}
	if body == nil {
		return nil, ErrMissingBody
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := pulse.NewRegistry("player", clock)
	return &Agent{
		pos:        spawn,
		alive:      true,
		controlled: true,
		registry:   reg,
		controller: NewController(cfg, reg, sink, logger),
		input:      input,
		body:       body,
		logger:     logger.With(zap.String("agent", "player")),
		cfg:        cfg,
	}, nil
}

// OnDeath registers fn to run once the kill animation has finished.
func (a *Agent) OnDeath(fn func()) { a.onDeath = fn }

func (a *Agent) Position() geom.Vec3       { return a.pos }
func (a *Agent) Velocity() geom.Vec3       { return a.velocity }
func (a *Agent) Yaw() float32              { return a.yaw }
func (a *Agent) Mode() Mode                { return a.mode }
func (a *Agent) IsAlive() bool             { return a.alive }
func (a *Agent) Controlled() bool          { return a.controlled }
func (a *Agent) Registry() *pulse.Registry { return a.registry }
func (a *Agent) Controller() *Controller   { return a.controller }

// LookTarget returns what the camera is locked onto during a kill.
func (a *Agent) LookTarget() (geom.Vec3, bool) {
	if a.lookAt == nil {
		return geom.Zero, false
	}
	return a.lookAt.Position(), true
}

// Tick reads input, moves, emits footsteps and publishes the player's
// position to shared.
func (a *Agent) Tick(ctx ai.TickContext) {
	if !a.alive {
		return
	}
	defer a.share(ctx.Shared)
	if !a.controlled {
		a.velocity = geom.Zero
		return
	}

	in := a.input.Next(ctx.Now, a.pos, a.yaw)
	a.mode = in.Mode
	a.yaw -= in.Look * a.cfg.MouseSensitivity

	wanted := a.worldDirection(in.Move).Scale(a.controller.Speed(in.Mode))
	from := a.pos
	a.pos = a.body.Slide(from, wanted, ctx.Delta)
	// Footsteps count the distance actually covered, not the requested
	// speed, so walking into a wall is silent.
	a.velocity = geom.Zero
	if ctx.Delta > 0 {
		a.velocity = a.pos.Sub(from).Scale(1 / ctx.Delta)
	}
	a.controller.Update(a.pos, a.velocity, in.Mode, ctx.Delta)

	if in.Pulse {
		_, _ = a.controller.ManualPulse(a.pos)
	}
}

// ManualPulse triggers the sonar pulse outside of regular input.
func (a *Agent) ManualPulse() (pulse.Event, error) {
	if !a.alive {
		return pulse.Event{}, ErrControlLocked
	}
	return a.controller.ManualPulse(a.pos)
}

// worldDirection rotates a local input axis by yaw. Yaw 0 faces -Z.
func (a *Agent) worldDirection(local geom.Vec3) geom.Vec3 {
	forward := geom.V(0, 0, -1).RotateY(a.yaw)
	right := geom.V(1, 0, 0).RotateY(a.yaw)
	return right.Scale(local.X).Add(forward.Scale(local.Y)).Normalized()
}

func (a *Agent) share(s *ai.Shared) {
	if s == nil || !a.alive {
		return
	}
	s.LastKnownPlayerPosition = a.pos
	s.PlayerSpawned = true
}

// OnMonsterKillLock suspends control and locks the camera onto eyes.
func (a *Agent) OnMonsterKillLock(eyes ai.Positioner) {
	if !a.controlled {
		return
	}
	a.controlled = false
	a.velocity = geom.Zero
	a.lookAt = eyes
	a.controller.SetEnabled(false)
	a.logger.Info("player caught", zap.Float32("x", a.pos.X), zap.Float32("z", a.pos.Z))
}

// OnKillAnimationComplete ends the run. The player's registry is dropped.
func (a *Agent) OnKillAnimationComplete() {
	if !a.alive {
		return
	}
	a.alive = false
	a.registry.Clear()
	a.logger.Info("player killed")
	if a.onDeath != nil {
		a.onDeath()
	}
}
