package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikol93/CJ12/game/geom"
)

func TestClock_AdvanceIsMonotonic(t *testing.T) {
	c := NewClock()
	c.Advance(0.5)
	c.Advance(-3)
	c.Advance(0.25)
	assert.InDelta(t, 0.75, c.Now(), 1e-6)
}

func TestRegistry_EmitStampsClock(t *testing.T) {
	c := NewClock()
	c.Advance(1.5)
	r := NewRegistry("player", c)

	ev, err := r.Emit(KindFootstep, geom.V(1, 0, 2), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), ev.CreatedAt)
	assert.Equal(t, geom.V(1, 0, 2), ev.Origin)
	assert.NotEqual(t, ev.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_EmitRejectsBadParameters(t *testing.T) {
	r := NewRegistry("monster", NewClock())

	_, err := r.Emit(KindEcho, geom.Zero, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidVelocity))
	_, err = r.Emit(KindEcho, geom.Zero, -2, 1)
	assert.True(t, errors.Is(err, ErrInvalidVelocity))
	_, err = r.Emit(KindEcho, geom.Zero, float32(math.NaN()), 1)
	assert.True(t, errors.Is(err, ErrInvalidVelocity))
	_, err = r.Emit(KindEcho, geom.Zero, 3, 0)
	assert.True(t, errors.Is(err, ErrInvalidLifetime))

	assert.Zero(t, r.Len(), "rejected emissions must not be stored")
}

func TestRegistry_LimitIsReportedNotSilent(t *testing.T) {
	r := NewRegistry("monster", NewClock())
	r.SetLimit(2)
	_, err := r.Emit(KindRoar, geom.Zero, 1, 1)
	require.NoError(t, err)
	_, err = r.Emit(KindRoar, geom.Zero, 1, 1)
	require.NoError(t, err)
	_, err = r.Emit(KindRoar, geom.Zero, 1, 1)
	assert.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_PruneExpired(t *testing.T) {
	c := NewClock()
	r := NewRegistry("player", c)
	_, _ = r.Emit(KindFootstep, geom.Zero, 1, 1)
	c.Advance(0.5)
	keep, _ := r.Emit(KindFootstep, geom.Zero, 1, 3)

	c.Advance(0.75) // first is 1.25s old, second 0.75s
	assert.Equal(t, 1, r.PruneExpired(c.Now()))
	assert.Equal(t, 0, r.PruneExpired(c.Now()), "idempotent")

	evs := r.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, keep.ID, evs[0].ID)
}

func TestRegistry_ExactLifetimeIsStillLive(t *testing.T) {
	c := NewClock()
	r := NewRegistry("player", c)
	_, _ = r.Emit(KindFootstep, geom.Zero, 1, 1)
	c.Advance(1)
	assert.Equal(t, 0, r.PruneExpired(c.Now()))
}

func TestRegistry_ForEachLiveNewestFirstAndConsume(t *testing.T) {
	c := NewClock()
	r := NewRegistry("player", c)
	a, _ := r.Emit(KindFootstep, geom.Zero, 1, 10)
	c.Advance(0.1)
	b, _ := r.Emit(KindFootstep, geom.Zero, 1, 10)
	c.Advance(0.1)
	cc, _ := r.Emit(KindFootstep, geom.Zero, 1, 10)

	var order []string
	r.ForEachLive(func(ev Event) bool {
		order = append(order, ev.ID.String())
		return ev.ID == b.ID
	})
	assert.Equal(t, []string{cc.ID.String(), b.ID.String(), a.ID.String()}, order)

	remaining := r.Events()
	require.Len(t, remaining, 2)
	assert.Equal(t, cc.ID, remaining[0].ID)
	assert.Equal(t, a.ID, remaining[1].ID)
}

func TestRegistry_ForEachLiveSkipsExpired(t *testing.T) {
	c := NewClock()
	r := NewRegistry("player", c)
	_, _ = r.Emit(KindFootstep, geom.Zero, 1, 0.5)
	c.Advance(1)
	visited := 0
	r.ForEachLive(func(Event) bool { visited++; return false })
	assert.Zero(t, visited)
}

func TestRegistry_EmitDuringScan(t *testing.T) {
	c := NewClock()
	r := NewRegistry("monster", c)
	_, _ = r.Emit(KindEcho, geom.Zero, 1, 10)
	visited := 0
	r.Scan(func(Event) Verdict {
		visited++
		_, _ = r.Emit(KindEcho, geom.Zero, 1, 10)
		return Consume
	})
	assert.Equal(t, 1, visited)
	assert.Equal(t, 1, r.Len(), "the event emitted mid-scan survives")
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry("monster", NewClock())
	_, _ = r.Emit(KindEcho, geom.Zero, 1, 10)
	r.Clear()
	assert.Zero(t, r.Len())
}

func TestLifetimeForRange(t *testing.T) {
	assert.InDelta(t, 2.5, LifetimeForRange(10, 4), 1e-6)
	assert.Zero(t, LifetimeForRange(10, 0))
}
