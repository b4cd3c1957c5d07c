package debug_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/api/debug"
	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/player"
	"github.com/pikol93/CJ12/game/world"
)

type idleInput struct{}

func (idleInput) Next(float32, geom.Vec3, float32) player.Intent { return player.Intent{} }

type fixture struct {
	holder *world.Holder
	bus    *eventbus.Bus
	router http.Handler
}

func newFixture(t *testing.T, apiCfg config.DebugAPIConfig) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{holder: &world.Holder{}, bus: eventbus.New(64)}
	srv, err := debug.New(ctx, apiCfg, false, f.holder, f.bus, zap.NewNop())
	require.NoError(t, err)
	f.router = srv.Handler()
	return f
}

// runScene starts a world with one monster at monsterAt and publishes it.
func (f *fixture) runScene(t *testing.T, monsterAt geom.Vec3, tweak func(*config.Config)) *world.World {
	t.Helper()
	cfg := config.Default()
	cfg.Server.TickMs = 5
	cfg.Scene.PlayerSpawn = geom.Zero
	cfg.Scene.Monsters = []config.MonsterSpawn{{Name: "stalker", Position: monsterAt}}
	if tweak != nil {
		tweak(cfg)
	}
	w, err := world.New(cfg, world.Options{Logger: zap.NewNop(), Bus: f.bus, Input: idleInput{}, Seed: 3})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	f.holder.Set(w)
	return w
}

func (f *fixture) call(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

type stateBody struct {
	ForceEdgeCheck bool `json:"force_edge_check"`
	Player         struct {
		Alive  bool `json:"alive"`
		Pulses int  `json:"pulses"`
	} `json:"player"`
	Monsters []struct {
		ID    string `json:"id"`
		State string `json:"state"`
	} `json:"monsters"`
}

func (f *fixture) state(t *testing.T) stateBody {
	t.Helper()
	w := f.call(http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var s stateBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestHealth(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	w := f.call(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","scene":false}`, w.Body.String())
}

func TestNoSceneIsUnavailable(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	assert.Equal(t, http.StatusServiceUnavailable, f.call(http.MethodGet, "/state").Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.call(http.MethodPost, "/player/pulse").Code)
}

func TestState(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	f.runScene(t, geom.V(15, 0, 15), nil)

	s := f.state(t)
	assert.True(t, s.Player.Alive)
	require.Len(t, s.Monsters, 1)
	assert.Equal(t, "stalker", s.Monsters[0].ID)
	assert.Equal(t, "IDLE", s.Monsters[0].State)
}

func TestForceTimers(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	f.runScene(t, geom.V(15, 0, 15), nil)

	w := f.call(http.MethodPost, "/monsters/stalker/roar")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"monster_id":"stalker","forced":"roar"}`, w.Body.String())

	assert.Equal(t, http.StatusAccepted, f.call(http.MethodPost, "/monsters/stalker/echo").Code)
	assert.Equal(t, http.StatusNotFound, f.call(http.MethodPost, "/monsters/ghost/roar").Code)
	assert.Equal(t, http.StatusNotFound, f.call(http.MethodPost, "/monsters/ghost/echo").Code)
}

func TestPlayerPulse(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	f.runScene(t, geom.V(15, 0, 15), nil)

	w := f.call(http.MethodPost, "/player/pulse")
	require.Equal(t, http.StatusCreated, w.Code)
	var ev struct {
		ID       string  `json:"id"`
		Velocity float32 `json:"velocity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.NotEmpty(t, ev.ID)
	assert.InDelta(t, 12, ev.Velocity, 1e-5)
	assert.GreaterOrEqual(t, f.state(t).Player.Pulses, 1)
}

func TestPlayerPulse_LockedDuringKill(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	f.runScene(t, geom.V(1, 0, 0), func(cfg *config.Config) {
		cfg.Monster.KillAnimationSec = 100
	})

	require.Eventually(t, func() bool {
		return f.call(http.MethodPost, "/player/pulse").Code == http.StatusConflict
	}, 2*time.Second, 10*time.Millisecond)
}

func TestVisualControls(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	f.runScene(t, geom.V(15, 0, 15), nil)

	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPost, "/visual/force-edge-check?enabled=maybe").Code)

	w := f.call(http.MethodPost, "/visual/force-edge-check?enabled=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.state(t).ForceEdgeCheck)

	assert.Equal(t, http.StatusNoContent, f.call(http.MethodPost, "/visual/erase").Code)

	w = f.call(http.MethodGet, "/visual/uniforms")
	require.Equal(t, http.StatusOK, w.Code)
	var u struct {
		Positions      []geom.Vec3 `json:"pulse_positions"`
		ForceEdgeCheck bool        `json:"force_edge_check"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Len(t, u.Positions, config.Default().Visual.Capacity)
	assert.True(t, u.ForceEdgeCheck)
}

func TestAllowlistBlocksRemoteClients(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{AllowedCIDRs: []string{"127.0.0.0/8"}})
	// httptest requests come from 192.0.2.1.
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodGet, "/health").Code)
}

func TestNew_BadAllowlist(t *testing.T) {
	_, err := debug.New(context.Background(), config.DebugAPIConfig{AllowedCIDRs: []string{"nope"}}, false, &world.Holder{}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestEvents(t *testing.T) {
	f := newFixture(t, config.DebugAPIConfig{})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	bad, err := http.Get(srv.URL + "/events?channels=weather")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?channels=lifecycle", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	_, _ = rd.ReadString('\n') // data
	_, _ = rd.ReadString('\n') // blank

	require.NoError(t, f.bus.Publish(context.Background(), eventbus.ChannelState, `{"ignored":true}`))
	require.NoError(t, f.bus.Publish(context.Background(), eventbus.ChannelLifecycle, `{"event":"started"}`))

	line, err = rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: lifecycle\n", line)
	line, err = rd.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, `data: {"event":"started"}`))
}

func init() {
	gin.SetMode(gin.TestMode)
}
