package world

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/monster"
	"github.com/pikol93/CJ12/game/player"
)

// stillInput never moves; it fires the manual pulse on the first tick when
// pulse is set.
type stillInput struct {
	pulse bool
}

func (s *stillInput) Next(float32, geom.Vec3, float32) player.Intent {
	in := player.Intent{Pulse: s.pulse}
	s.pulse = false
	return in
}

func testWorldConfig(monsters ...geom.Vec3) *config.Config {
	cfg := config.Default()
	cfg.Scene.PlayerSpawn = geom.Zero
	cfg.Scene.Monsters = nil
	for i, p := range monsters {
		name := "stalker"
		if i > 0 {
			name = "stalker-2"
		}
		cfg.Scene.Monsters = append(cfg.Scene.Monsters, config.MonsterSpawn{Name: name, Position: p})
	}
	return cfg
}

func newTestWorld(t *testing.T, cfg *config.Config, in player.InputSource, bus *eventbus.Bus) *World {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	w, err := New(cfg, Options{Logger: logger, Bus: bus, Input: in, Seed: 7})
	require.NoError(t, err)
	return w
}

func TestWorld_ManualPulseAlertsMonsterSameTick(t *testing.T) {
	bus := eventbus.New(64)
	msgs, cancel, err := bus.Subscribe(context.Background(), eventbus.ChannelDetection)
	require.NoError(t, err)
	defer cancel()

	w := newTestWorld(t, testWorldConfig(geom.V(6, 0, 0)), &stillInput{pulse: true}, bus)
	m, ok := w.Monster("stalker")
	require.True(t, ok)

	w.Tick(0.05)
	require.Equal(t, 1, w.Player().Registry().Len())

	for i := 0; i < 30 && w.Player().Registry().Len() > 0; i++ {
		w.Tick(0.05)
	}
	require.Zero(t, w.Player().Registry().Len(), "pulse consumed")
	assert.GreaterOrEqual(t, w.Now(), float32(0.5), "manual pulse travels 12 m/s")
	assert.Equal(t, monster.Chase{LastKnownPlayerPosition: geom.Zero}, m.State(),
		"the alert is applied in the same tick it was heard")

	select {
	case msg := <-msgs:
		var ev DetectionEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, PlayerToMonster, ev.Direction)
		assert.Equal(t, "stalker", ev.MonsterID)
		assert.Equal(t, "manual", ev.Kind)
	default:
		t.Fatal("no detection published")
	}
}

func TestWorld_NearestMonsterClaimsPulse(t *testing.T) {
	w := newTestWorld(t, testWorldConfig(geom.V(4, 0, 0), geom.V(-2, 0, 0)), &stillInput{pulse: true}, nil)
	far, _ := w.Monster("stalker")
	near, _ := w.Monster("stalker-2")

	for i := 0; i < 20; i++ {
		w.Tick(0.05)
	}
	assert.NotEqual(t, monster.StateIdle, near.State().Kind())
	assert.Equal(t, monster.StateIdle, far.State().Kind(), "one pulse alerts one monster")
}

func TestWorld_EchoReachesPlayer(t *testing.T) {
	w := newTestWorld(t, testWorldConfig(geom.V(5, 0, 0)), &stillInput{}, nil)
	m, _ := w.Monster("stalker")

	m.ForceEcho()
	w.Tick(0.05)
	require.Equal(t, 1, m.Registry().Len())

	for i := 0; i < 20 && m.State().Kind() == monster.StateIdle; i++ {
		w.Tick(0.05)
	}
	assert.Equal(t, monster.Chase{LastKnownPlayerPosition: geom.Zero}, m.State())
	assert.Zero(t, m.Registry().Len())
}

func TestWorld_KillEndsRun(t *testing.T) {
	bus := eventbus.New(64)
	msgs, cancel, err := bus.Subscribe(context.Background(), eventbus.ChannelLifecycle)
	require.NoError(t, err)
	defer cancel()

	w := newTestWorld(t, testWorldConfig(geom.V(1, 0, 0)), &stillInput{}, bus)
	m, _ := w.Monster("stalker")

	w.Tick(0.1)
	require.Equal(t, monster.StateKill, m.State().Kind())
	assert.False(t, w.Player().Controlled())
	eyes, ok := w.Player().LookTarget()
	require.True(t, ok)
	assert.InDelta(t, w.cfg.Monster.EyesHeight, eyes.Y, 1e-5)

	for i := 0; i < 40 && !w.Finished(); i++ {
		w.Tick(0.1)
	}
	require.True(t, w.Finished())
	assert.Equal(t, ReasonPlayerKilled, w.Reason())
	assert.False(t, w.Player().IsAlive())
	assert.True(t, m.State().(monster.Kill).Reported)
	assert.GreaterOrEqual(t, w.Now(), w.cfg.Monster.KillAnimationSec)

	ticks := w.Ticks()
	w.Tick(0.1)
	assert.Equal(t, ticks, w.Ticks(), "finished worlds do not tick")

	msg := <-msgs
	assert.Contains(t, msg.Payload, "player_killed")
}

func TestWorld_VisualBufferPruned(t *testing.T) {
	w := newTestWorld(t, testWorldConfig(), &stillInput{pulse: true}, nil)
	w.Tick(0.05)
	require.Equal(t, 1, w.Visual().Len())

	lifetime := w.cfg.Player.Manual.Lifetime()
	for w.Now() < lifetime+0.5 {
		w.Tick(0.05)
	}
	assert.Zero(t, w.Visual().Len())
}

func TestWorld_RoarFollowUpsStampedWhenFired(t *testing.T) {
	cfg := testWorldConfig(geom.V(15, 0, 15))
	cfg.Monster.RoarBurstCount = 3
	cfg.Monster.RoarBurstDelay = 0.15
	w := newTestWorld(t, cfg, &stillInput{}, nil)
	m, _ := w.Monster("stalker")

	m.ForceRoar()
	for i := 0; i < 8; i++ {
		w.Tick(0.05)
	}

	require.Equal(t, 1, m.Registry().Len())
	primary := m.Registry().Events()[0].CreatedAt
	require.Equal(t, 3, w.Visual().Len())

	ts := w.Visual().Uniforms().Timestamps
	// Newest first: second follow-up, first follow-up, primary ring.
	assert.InDelta(t, primary, ts[2], 1e-6)
	const tick = 0.05
	assert.GreaterOrEqual(t, ts[1]-primary, float32(0.15-1e-4))
	assert.LessOrEqual(t, ts[1]-primary, float32(0.15+tick+1e-4))
	assert.GreaterOrEqual(t, ts[0]-primary, float32(0.30-1e-4))
	assert.LessOrEqual(t, ts[0]-primary, float32(0.30+tick+1e-4))
}

func TestWorld_RunAndDo(t *testing.T) {
	w := newTestWorld(t, testWorldConfig(geom.V(15, 0, 15)), &stillInput{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan Reason, 1)
	go func() { result <- w.Run(ctx) }()

	var snap Snapshot
	err := w.Do(context.Background(), func(w *World) error {
		snap = w.Snapshot()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, snap.Monsters, 1)
	assert.Equal(t, "stalker", snap.Monsters[0].ID)
	assert.True(t, snap.Player.Alive)

	cancel()
	select {
	case r := <-result:
		assert.Equal(t, ReasonStopped, r)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
	assert.ErrorIs(t, w.Do(context.Background(), func(*World) error { return nil }), ErrStopped)
}

func TestWorld_CommandPanicIsRecovered(t *testing.T) {
	w := newTestWorld(t, testWorldConfig(), &stillInput{}, nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Do(context.Background(), func(*World) error { panic("boom") })
	}()
	require.Eventually(t, func() bool {
		w.Tick(0.01)
		return len(errCh) == 1
	}, time.Second, time.Millisecond)
	assert.Error(t, <-errCh)
}

func TestNew_RejectsUnknownClaimPolicy(t *testing.T) {
	cfg := testWorldConfig()
	cfg.Detection.ClaimPolicy = "loudest"
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}
