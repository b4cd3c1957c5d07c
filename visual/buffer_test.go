package visual

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/game/geom"
)

type manualClock struct{ now float32 }

func (c *manualClock) Now() float32 { return c.now }

func TestBuffer_NewestFirst(t *testing.T) {
	clk := &manualClock{}
	b := NewBuffer(clk, 4)
	b.EmitVisualPulse(Pulse{Origin: geom.V(1, 0, 0), MaxLifetime: 5})
	clk.now = 1
	b.EmitVisualPulse(Pulse{Origin: geom.V(2, 0, 0), MaxLifetime: 5})

	u := b.Uniforms()
	assert.Len(t, u.Positions, 4)
	assert.Equal(t, geom.V(2, 0, 0), u.Positions[0])
	assert.Equal(t, float32(1), u.Timestamps[0])
	assert.Equal(t, geom.V(1, 0, 0), u.Positions[1])
	assert.Equal(t, geom.Zero, u.Positions[2], "unused slots are zero")
}

func TestBuffer_DropsOldestWhenFull(t *testing.T) {
	clk := &manualClock{}
	b := NewBuffer(clk, 2)
	for i := 1; i <= 3; i++ {
		b.EmitVisualPulse(Pulse{Origin: geom.V(float32(i), 0, 0), MaxLifetime: 5})
	}
	require.Equal(t, 2, b.Len())
	u := b.Uniforms()
	assert.Equal(t, geom.V(3, 0, 0), u.Positions[0])
	assert.Equal(t, geom.V(2, 0, 0), u.Positions[1])
}

func TestBuffer_Prune(t *testing.T) {
	clk := &manualClock{}
	b := NewBuffer(clk, 0)
	b.EmitVisualPulse(Pulse{MaxLifetime: 1})
	b.EmitVisualPulse(Pulse{MaxLifetime: 3})
	assert.Equal(t, 1, b.Prune(2))
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 0, b.Prune(2))
}

func TestBuffer_StyleAndFlags(t *testing.T) {
	b := NewBuffer(&manualClock{}, 1)
	b.EmitVisualPulse(Pulse{Style: Style{Type: PulseOnlyRing, Color: ColorRed}, MaxLifetime: 1})
	b.SetForceEdgeCheck(true)
	assert.True(t, b.Dirty())

	u := b.Uniforms()
	assert.Equal(t, 1, u.Types[0])
	assert.Equal(t, geom.V(1, 0, 0), u.ColorOverrides[0])
	assert.True(t, u.ForceEdgeCheck)
	assert.False(t, b.Dirty())
}

func TestBuffer_Erase(t *testing.T) {
	b := NewBuffer(&manualClock{}, 0)
	b.EmitVisualPulse(Pulse{MaxLifetime: 1})
	b.Erase()
	assert.Zero(t, b.Len())
}

type recordingSink struct{ got []Pulse }

func (r *recordingSink) EmitVisualPulse(p Pulse) { r.got = append(r.got, p) }

func TestMulti_FansOut(t *testing.T) {
	a, c := &recordingSink{}, &recordingSink{}
	Multi{a, nil, c, Discard{}}.EmitVisualPulse(Pulse{Range: 4})
	assert.Len(t, a.got, 1)
	assert.Len(t, c.got, 1)
}

type capturePub struct {
	channel, msg string
}

func (c *capturePub) Publish(_ context.Context, channel, message string) error {
	c.channel, c.msg = channel, message
	return nil
}

func TestBusSink_PublishesJSON(t *testing.T) {
	pub := &capturePub{}
	NewBusSink(pub, zap.NewNop()).EmitVisualPulse(Pulse{Origin: geom.V(1, 2, 3), Velocity: 4, Source: "player"})

	assert.Equal(t, PulseChannel, pub.channel)
	var p Pulse
	require.NoError(t, json.Unmarshal([]byte(pub.msg), &p))
	assert.Equal(t, geom.V(1, 2, 3), p.Origin)
	assert.Equal(t, "player", p.Source)
}
