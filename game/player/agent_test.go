package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/pulse"
)

type constInput struct{ in Intent }

func (c *constInput) Next(float32, geom.Vec3, float32) Intent { return c.in }

type freeBody struct{}

func (freeBody) Slide(from, vel geom.Vec3, dt float32) geom.Vec3 { return from.Add(vel.Scale(dt)) }

type wallBody struct{}

func (wallBody) Slide(from, _ geom.Vec3, _ float32) geom.Vec3 { return from }

type point geom.Vec3

func (p point) Position() geom.Vec3 { return geom.Vec3(p) }

func newTestAgent(t *testing.T, in *constInput) *Agent {
	t.Helper()
	a, err := NewAgent(geom.Zero, config.Default().Player, pulse.NewClock(), in, freeBody{}, nil, zap.NewNop())
	require.NoError(t, err)
	return a
}

func TestNewAgent_RequiresInputAndBody(t *testing.T) {
	_, err := NewAgent(geom.Zero, config.Default().Player, pulse.NewClock(), nil, freeBody{}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingInput)
	_, err = NewAgent(geom.Zero, config.Default().Player, pulse.NewClock(), &constInput{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingBody)
}

func TestAgent_MovesForwardAlongMinusZ(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(0, 1, 0), Mode: ModeRun}}
	a := newTestAgent(t, in)
	shared := &ai.Shared{}

	a.Tick(ai.TickContext{Delta: 0.5, Shared: shared})

	run := config.Default().Player.RunSpeed
	assert.InDelta(t, -run*0.5, a.Position().Z, 1e-4)
	assert.InDelta(t, 0, a.Position().X, 1e-4)
	assert.True(t, shared.PlayerSpawned)
	assert.Equal(t, a.Position(), shared.LastKnownPlayerPosition)
	assert.Equal(t, ModeRun, a.Mode())
}

func TestAgent_LookTurnsMovement(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(0, 1, 0), Look: 1}}
	a := newTestAgent(t, in)
	a.cfg.MouseSensitivity = math.Pi / 2

	a.Tick(ai.TickContext{Delta: 1})

	// A quarter turn to the right makes forward +X.
	assert.InDelta(t, config.Default().Player.WalkSpeed, a.Position().X, 1e-4)
	assert.InDelta(t, 0, a.Position().Z, 1e-4)
}

func TestAgent_DiagonalInputIsNotFaster(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(1, 1, 0), Mode: ModeWalk}}
	a := newTestAgent(t, in)
	a.Tick(ai.TickContext{Delta: 0.1})
	assert.InDelta(t, config.Default().Player.WalkSpeed, a.Velocity().Length(), 1e-4)
}

func TestAgent_ManualPulseFromInput(t *testing.T) {
	in := &constInput{in: Intent{Pulse: true}}
	a := newTestAgent(t, in)
	a.Tick(ai.TickContext{Delta: 0.1})
	require.Equal(t, 1, a.Registry().Len())
	assert.Equal(t, pulse.KindManual, a.Registry().Events()[0].Kind)
}

func TestAgent_KillLockThenDeath(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(0, 1, 0), Mode: ModeRun, Pulse: true}}
	a := newTestAgent(t, in)
	shared := &ai.Shared{}
	a.Tick(ai.TickContext{Delta: 0.1, Shared: shared})
	before := a.Registry().Len()

	eyes := point(geom.V(0, 1.7, 2))
	a.OnMonsterKillLock(eyes)
	assert.False(t, a.Controlled())
	assert.False(t, a.Controller().Enabled())
	target, ok := a.LookTarget()
	require.True(t, ok)
	assert.Equal(t, geom.V(0, 1.7, 2), target)

	pos := a.Position()
	a.Tick(ai.TickContext{Delta: 0.1, Shared: shared})
	assert.Equal(t, pos, a.Position(), "no movement while locked")
	assert.Equal(t, before, a.Registry().Len(), "no pulses while locked")
	assert.True(t, a.IsAlive())

	deaths := 0
	a.OnDeath(func() { deaths++ })
	a.OnKillAnimationComplete()
	a.OnKillAnimationComplete()
	assert.False(t, a.IsAlive())
	assert.Equal(t, 1, deaths)
	assert.Zero(t, a.Registry().Len())

	_, err := a.ManualPulse()
	assert.ErrorIs(t, err, ErrControlLocked)
}

func TestAgent_BlockedMovementMakesNoFootsteps(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(0, 1, 0), Mode: ModeRun}}
	a, err := NewAgent(geom.Zero, config.Default().Player, pulse.NewClock(), in, wallBody{}, nil, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		a.Tick(ai.TickContext{Delta: 0.1, Shared: &ai.Shared{}})
	}
	assert.Equal(t, geom.Zero, a.Position())
	assert.Equal(t, geom.Zero, a.Velocity())
	assert.Zero(t, a.Registry().Len())
	assert.Zero(t, a.Controller().DistanceSinceLastStep())
}

func TestAgent_FootstepsFollowDistanceCovered(t *testing.T) {
	in := &constInput{in: Intent{Move: geom.V(0, 1, 0), Mode: ModeRun}}
	a := newTestAgent(t, in)
	cfg := config.Default().Player

	// One tick covering just over one step distance.
	a.Tick(ai.TickContext{Delta: cfg.StepDistance/cfg.RunSpeed + 0.01, Shared: &ai.Shared{}})
	assert.Equal(t, 1, a.Registry().Len())
}
