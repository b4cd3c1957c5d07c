package world

import (
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/monster"
)

// Snapshot is a point-in-time view of the scene for inspection.
type Snapshot struct {
	Now            float32           `json:"now"`
	Ticks          uint64            `json:"ticks"`
	Finished       bool              `json:"finished"`
	Player         PlayerSnapshot    `json:"player"`
	Monsters       []MonsterSnapshot `json:"monsters"`
	VisualPulses   int               `json:"visual_pulses"`
	ForceEdgeCheck bool              `json:"force_edge_check"`
	ScentTrail     *geom.Vec3        `json:"scent_trail,omitempty"`
}

type PlayerSnapshot struct {
	Position   geom.Vec3 `json:"position"`
	Yaw        float32   `json:"yaw"`
	Mode       string    `json:"mode"`
	Alive      bool      `json:"alive"`
	Controlled bool      `json:"controlled"`
	Pulses     int       `json:"pulses"`
}

type MonsterSnapshot struct {
	ID       string            `json:"id"`
	State    monster.StateKind `json:"state"`
	Target   *geom.Vec3        `json:"target,omitempty"`
	Position geom.Vec3         `json:"position"`
	Yaw      float32           `json:"yaw"`
	Pulses   int               `json:"pulses"`
	Idle     ai.Timer          `json:"idle_timer"`
	Roar     ai.Timer          `json:"roar_timer"`
	Echo     ai.Timer          `json:"echo_timer"`
}

// Snapshot captures the current scene. Call it on the simulation goroutine,
// e.g. through Do.
func (w *World) Snapshot() Snapshot {
	p := w.player
	s := Snapshot{
		Now:      w.clock.Now(),
		Ticks:    w.ticks,
		Finished: w.finished,
		Player: PlayerSnapshot{
			Position:   p.Position(),
			Yaw:        p.Yaw(),
			Mode:       p.Mode().String(),
			Alive:      p.IsAlive(),
			Controlled: p.Controlled(),
			Pulses:     p.Registry().Len(),
		},
		VisualPulses:   w.visual.Len(),
		ForceEdgeCheck: w.visual.ForceEdgeCheck(),
	}
	if trail, ok := (ai.TickContext{Shared: &w.shared}).ScentTrail(); ok {
		s.ScentTrail = &trail
	}
	for _, m := range w.monsters {
		idle, roar, echo := m.Timers()
		ms := MonsterSnapshot{
			ID:       m.ID(),
			State:    m.State().Kind(),
			Position: m.Position(),
			Yaw:      m.Yaw(),
			Pulses:   m.Registry().Len(),
			Idle:     idle,
			Roar:     roar,
			Echo:     echo,
		}
		switch st := m.State().(type) {
		case monster.Walk:
			ms.Target = &st.Target
		case monster.Chase:
			ms.Target = &st.LastKnownPlayerPosition
		}
		s.Monsters = append(s.Monsters, ms)
	}
	return s
}
