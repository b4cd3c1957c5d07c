package world

import (
	"context"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/monster"
	"github.com/pikol93/CJ12/game/pulse"
)

// Detection directions.
const (
	PlayerToMonster = "player_to_monster"
	MonsterToPlayer = "monster_to_player"
)

// DetectionEvent is published on eventbus.ChannelDetection.
type DetectionEvent struct {
	Direction string    `json:"direction"`
	MonsterID string    `json:"monster_id"`
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	Origin    geom.Vec3 `json:"origin"`
	Reported  geom.Vec3 `json:"reported_position"`
	Distance  float32   `json:"distance"`
	At        float32   `json:"at"`
}

// StateEvent is published on eventbus.ChannelState.
type StateEvent struct {
	MonsterID string            `json:"monster_id"`
	From      monster.StateKind `json:"from"`
	To        monster.StateKind `json:"to"`
	Position  geom.Vec3         `json:"position"`
	At        float32           `json:"at"`
}

// LifecycleEvent is published on eventbus.ChannelLifecycle.
type LifecycleEvent struct {
	Event string  `json:"event"`
	At    float32 `json:"at"`
}

func newDetectionEvent(dir, monsterID string, d pulse.Detection, reported geom.Vec3) DetectionEvent {
	return DetectionEvent{
		Direction: dir,
		MonsterID: monsterID,
		EventID:   d.Event.ID.String(),
		Kind:      d.Event.Kind.String(),
		Origin:    d.Event.Origin,
		Reported:  reported,
		Distance:  d.Distance,
		At:        d.At,
	}
}

func (w *World) publish(channel string, v any) {
	if w.bus == nil {
		return
	}
	if err := w.bus.PublishJSON(context.Background(), channel, v); err != nil {
		w.logger.Warn("event publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (w *World) publishLifecycle(event string) {
	w.publish(eventbus.ChannelLifecycle, LifecycleEvent{Event: event, At: w.clock.Now()})
}
