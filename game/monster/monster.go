// Package monster implements the monster's behaviour: a four-state machine
// (idle, walk, chase, kill) driven by pulse detections and proximity, plus
// independent roar and echo-location timers.
package monster

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/pulse"
	"github.com/pikol93/CJ12/visual"
)

var (
	ErrMissingClock     = errors.New("monster: clock is required")
	ErrMissingNavigator = errors.New("monster: navigation agent is required")
	ErrMissingBody      = errors.New("monster: body is required")
	ErrMissingEyes      = errors.New("monster: eyes anchor is required")
	ErrMissingAnimator  = errors.New("monster: animation controller is required")
	ErrMissingDeathSink = errors.New("monster: death sink is required")
	ErrMissingWaypoints = errors.New("monster: waypoint source is required")
)

// Deps are the external collaborators a monster needs. Everything except
// Visual, Logger, Rand and OnStateChange is required.
type Deps struct {
	Clock     *pulse.Clock
	Navigator Navigator
	Body      Body
	Eyes      ai.Positioner
	Animator  Animator
	Death     DeathSink
	Waypoints WaypointSource
	Visual    visual.Sink
	Logger    *zap.Logger
	Rand      ai.Rand
	// OnStateChange is called after every transition.
	OnStateChange func(m *Monster, from, to State)
}

func (d Deps) validate() error {
	switch {
	case d.Clock == nil:
		return ErrMissingClock
	case d.Navigator == nil:
		return ErrMissingNavigator
	case d.Body == nil:
		return ErrMissingBody
	case d.Eyes == nil:
		return ErrMissingEyes
	case d.Animator == nil:
		return ErrMissingAnimator
	case d.Death == nil:
		return ErrMissingDeathSink
	case d.Waypoints == nil:
		return ErrMissingWaypoints
	}
	return nil
}

// Monster is one monster instance. It is driven by Tick from the simulation
// goroutine only.
type Monster struct {
	id  string
	cfg config.MonsterConfig

	state    State
	pos      geom.Vec3
	velocity geom.Vec3
	yaw      float32

	idle, roar, echo ai.Timer

	pending    bool
	pendingPos geom.Vec3

	player    pulse.Listener
	registry  *pulse.Registry
	despawned bool

	deps   Deps
	logger *zap.Logger
}

// New creates a monster at spawn in the Idle state. It fails fast when a
// required collaborator is missing.
func New(id string, spawn geom.Vec3, cfg config.MonsterConfig, deps Deps) (*Monster, error) {
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("monster %s: %w", id, err)
	}
	if deps.Visual == nil {
		deps.Visual = visual.Discard{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Monster{
		id:       id,
		cfg:      cfg,
		state:    Idle{},
		pos:      spawn,
		registry: pulse.NewRegistry(id, deps.Clock),
		deps:     deps,
		logger:   deps.Logger.With(zap.String("monster_id", id)),
	}
	m.idle = ai.NewTimer(cfg.Idle, deps.Rand)
	m.roar = ai.NewTimer(cfg.Roar, deps.Rand)
	m.echo = ai.NewTimer(cfg.EchoPassive, deps.Rand)
	return m, nil
}

func (m *Monster) ID() string                { return m.id }
func (m *Monster) State() State              { return m.state }
func (m *Monster) Position() geom.Vec3       { return m.pos }
func (m *Monster) Velocity() geom.Vec3       { return m.velocity }
func (m *Monster) Yaw() float32              { return m.yaw }
func (m *Monster) Registry() *pulse.Registry { return m.registry }

// IsAlive reports whether the monster is still in the scene.
func (m *Monster) IsAlive() bool { return !m.despawned }

// Timers returns the idle, roar and echo countdowns.
func (m *Monster) Timers() (idle, roar, echo ai.Timer) { return m.idle, m.roar, m.echo }

// Alert reports that the player was detected at pos. The detection is applied
// on the next Tick, after the kill-zone check. The latest report wins.
func (m *Monster) Alert(pos geom.Vec3) {
	if m.despawned {
		return
	}
	m.pending = true
	m.pendingPos = pos
}

// ForceRoar makes the roar timer fire on the next tick.
func (m *Monster) ForceRoar() { m.roar = m.roar.Force() }

// ForceEcho makes the echo timer fire on the next tick.
func (m *Monster) ForceEcho() { m.echo = m.echo.Force() }

// Despawn removes the monster. Its registry and timers are dropped.
func (m *Monster) Despawn() {
	m.despawned = true
	m.pending = false
	m.registry.Clear()
}

// Tick runs one simulation step: kill-zone check, then pending detection,
// then the current state's behaviour.
func (m *Monster) Tick(ctx ai.TickContext) {
	if m.despawned {
		return
	}
	m.validatePlayer(ctx.Player)

	if k, ok := m.state.(Kill); ok {
		m.tickKill(k)
		return
	}

	if m.player != nil && m.pos.DistanceTo(m.player.Position()) < m.cfg.KillZoneRadius {
		m.pending = false
		m.enterKill()
		return
	}

	detected := false
	if m.pending {
		m.pending = false
		detected = true
		m.setState(onDetection(m.state, m.pendingPos))
	}

	switch s := m.state.(type) {
	case Idle:
		m.tickIdle(ctx)
	case Walk:
		m.tickWalk(ctx, s)
	case Chase:
		m.tickChase(ctx, s, detected)
	}
}

// validatePlayer drops the player reference once it is gone or dead.
func (m *Monster) validatePlayer(p pulse.Listener) {
	if p == nil || !p.IsAlive() {
		if m.player != nil {
			m.logger.Debug("player reference invalidated")
		}
		m.player = nil
		return
	}
	m.player = p
}

func (m *Monster) tickIdle(ctx ai.TickContext) {
	m.velocity = geom.Zero
	var fired bool
	fired, m.idle = m.idle.Tick(ctx.Delta, m.cfg.Idle, m.deps.Rand)
	m.tickRoar(ctx)
	m.tickEcho(ctx, m.cfg.EchoPassive)
	if !fired {
		return
	}
	next := onIdleExpired(m.pos, m.deps.Waypoints.ListWaypoints())
	if _, ok := next.(Idle); ok {
		// No patrol points: follow the scent trail instead.
		trail, ok := ctx.ScentTrail()
		if !ok {
			m.logger.Warn("no waypoints or scent trail to walk to; staying idle")
			return
		}
		next = Walk{Target: trail}
	}
	m.setState(next)
}

func (m *Monster) tickWalk(ctx ai.TickContext, s Walk) {
	remaining := m.moveToward(s.Target, m.cfg.WalkSpeed, ctx.Delta)
	m.tickRoar(ctx)
	m.tickEcho(ctx, m.cfg.EchoPassive)
	if remaining < m.cfg.TargetThreshold {
		m.setState(onArrived(s))
	}
}

func (m *Monster) tickChase(ctx ai.TickContext, s Chase, detected bool) {
	remaining := m.moveToward(s.LastKnownPlayerPosition, m.cfg.RunSpeed, ctx.Delta)
	m.tickRoar(ctx)
	m.tickEcho(ctx, m.cfg.EchoAggressive)
	if remaining < m.cfg.TargetThreshold && !detected {
		m.setState(onArrived(s))
	}
}

func (m *Monster) enterKill() {
	pp := m.player.Position()
	dir := m.pos.Sub(pp).Horizontal().Normalized()
	if dir.IsZero() {
		dir = geom.V(0, 0, 1)
	}
	m.velocity = geom.Zero
	m.setState(onKillZone(m.state, dir.Scale(m.cfg.KillHoldDistance)))
	m.deps.Death.OnMonsterKillLock(m.deps.Eyes)
	m.deps.Animator.PlayKill()
}

func (m *Monster) tickKill(k Kill) {
	if m.player != nil {
		pp := m.player.Position()
		m.pos = pp.Add(k.Offset)
		if yaw, ok := pp.Sub(m.pos).Yaw(); ok {
			m.yaw = yaw
		}
	}
	if !k.Reported && m.deps.Animator.KillFinished() {
		k.Reported = true
		m.state = k
		m.logger.Info("kill animation complete")
		m.deps.Death.OnKillAnimationComplete()
	}
}

// moveToward steps toward target through the navigator and returns the
// straight-line distance still left to target (not to the next step).
func (m *Monster) moveToward(target geom.Vec3, speed, delta float32) float32 {
	m.deps.Navigator.SetTarget(target)
	next := m.deps.Navigator.NextStepPosition()
	m.velocity = next.Sub(m.pos).Normalized().Scale(speed)
	m.pos = m.deps.Body.Slide(m.pos, m.velocity, delta)
	if yaw, ok := m.velocity.Yaw(); ok {
		m.yaw = yaw
	}
	return m.pos.DistanceTo(target)
}

func (m *Monster) tickRoar(ctx ai.TickContext) {
	var fired bool
	fired, m.roar = m.roar.Tick(ctx.Delta, m.cfg.Roar, m.deps.Rand)
	if fired {
		m.emitRoar(ctx)
	}
}

func (m *Monster) tickEcho(ctx ai.TickContext, cadence ai.Range) {
	var fired bool
	fired, m.echo = m.echo.Tick(ctx.Delta, cadence, m.deps.Rand)
	if fired {
		m.emitEcho()
	}
}

// emitRoar registers the primary roar pulse and schedules the visual-only
// follow-up rings of the burst.
func (m *Monster) emitRoar(ctx ai.TickContext) {
	pc := m.cfg.RoarPulse
	origin := m.pos
	ev, err := m.registry.Emit(pulse.KindRoar, origin, pc.Velocity, pc.Lifetime())
	if err != nil {
		m.logger.Warn("roar skipped", zap.Error(err))
		return
	}
	vp := visual.Pulse{
		Origin:      origin,
		Velocity:    pc.Velocity,
		Range:       pc.Range,
		MaxLifetime: pc.Lifetime(),
		Style:       visual.Style{Type: visual.PulseNormal, Color: visual.ColorRed},
		Source:      m.id,
	}
	m.deps.Visual.EmitVisualPulse(vp)
	m.logger.Debug("roar", zap.String("event_id", ev.ID.String()), zap.Float32("now", ev.CreatedAt))

	if ctx.Defer == nil {
		return
	}
	follow := vp
	follow.Style.Type = visual.PulseOnlyRing
	for i := 1; i < m.cfg.RoarBurstCount; i++ {
		name := fmt.Sprintf("%s/roar/%s/%d", m.id, ev.ID, i)
		ctx.Defer.AddDelay(name, float32(i)*m.cfg.RoarBurstDelay, func() {
			if m.despawned {
				return
			}
			m.deps.Visual.EmitVisualPulse(follow)
		})
	}
}

func (m *Monster) emitEcho() {
	pc := m.cfg.EchoPulse
	ev, err := m.registry.Emit(pulse.KindEcho, m.pos, pc.Velocity, pc.Lifetime())
	if err != nil {
		m.logger.Warn("echo skipped", zap.Error(err))
		return
	}
	m.deps.Visual.EmitVisualPulse(visual.Pulse{
		Origin:      ev.Origin,
		Velocity:    pc.Velocity,
		Range:       pc.Range,
		MaxLifetime: ev.MaxLifetime,
		Source:      m.id,
	})
}

func (m *Monster) setState(next State) {
	prev := m.state
	m.state = next
	if prev.Kind() == next.Kind() {
		return
	}
	if _, ok := next.(Idle); ok {
		m.idle = ai.NewTimer(m.cfg.Idle, m.deps.Rand)
	}
	m.logger.Info("monster state change",
		zap.Stringer("from", prev.Kind()),
		zap.Stringer("to", next.Kind()),
		zap.Float32("x", m.pos.X),
		zap.Float32("z", m.pos.Z))
	if m.deps.OnStateChange != nil {
		m.deps.OnStateChange(m, prev, next)
	}
}
