// Package ambient implements scene-placed pulsators: fixed emitters that
// paint a visual pulse on a fixed cadence near the player. They are never
// registered, so monsters cannot hear them.
package ambient

import (
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/visual"
)

// Pulsator emits a visual pulse every RepeatTime seconds of simulation time.
type Pulsator struct {
	cfg      config.PulsatorConfig
	lifetime float32
	elapsed  float32
	enabled  bool

	sink   visual.Sink
	logger *zap.Logger
}

// New creates a pulsator. Unless FixedLifetime is set, the pulse lifetime is
// stretched to RepeatTime + Range/Velocity so consecutive rings overlap.
func New(cfg config.PulsatorConfig, sink visual.Sink, logger *zap.Logger) *Pulsator {
	if sink == nil {
		sink = visual.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	lifetime := cfg.MaxLifetime
	if !cfg.FixedLifetime && cfg.Velocity > 0 {
		lifetime = cfg.RepeatTime + cfg.Range/cfg.Velocity
	}
	return &Pulsator{
		cfg:      cfg,
		lifetime: lifetime,
		enabled:  !cfg.Disabled,
		sink:     sink,
		logger:   logger.With(zap.String("pulsator", cfg.Name)),
	}
}

func (p *Pulsator) Name() string        { return p.cfg.Name }
func (p *Pulsator) Position() geom.Vec3 { return p.cfg.Position }
func (p *Pulsator) Lifetime() float32   { return p.lifetime }
func (p *Pulsator) Enabled() bool       { return p.enabled }
func (p *Pulsator) SetEnabled(on bool)  { p.enabled = on }

// Tick advances the repeat timer and reports whether a pulse was emitted.
// The timer keeps running while disabled or out of range; only the emission
// is skipped.
func (p *Pulsator) Tick(ctx ai.TickContext) bool {
	if p.cfg.RepeatTime <= 0 {
		return false
	}
	p.elapsed += ctx.Delta
	if p.elapsed < p.cfg.RepeatTime {
		return false
	}
	p.elapsed -= p.cfg.RepeatTime
	if p.elapsed >= p.cfg.RepeatTime {
		// A long stall: drop the backlog instead of bursting.
		p.elapsed = 0
	}

	if !p.enabled {
		return false
	}
	if !p.inRange(ctx) {
		p.logger.Debug("pulsator out of player range")
		return false
	}
	p.sink.EmitVisualPulse(visual.Pulse{
		Origin:      p.cfg.Position,
		Velocity:    p.cfg.Velocity,
		Range:       p.cfg.Range,
		MaxLifetime: p.lifetime,
		Style:       visual.Style{Type: visual.PulseNormal},
		Source:      p.cfg.Name,
	})
	return true
}

func (p *Pulsator) inRange(ctx ai.TickContext) bool {
	if p.cfg.IgnorePlayerDistance {
		return true
	}
	trail, ok := ctx.ScentTrail()
	if !ok {
		return false
	}
	return p.cfg.Position.DistanceTo(trail) <= p.cfg.MaxDistanceToPlayer
}
