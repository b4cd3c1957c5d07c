// Package player holds the player agent and the emission controller that turns
// its movement into footstep pulses.
package player

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/pulse"
	"github.com/pikol93/CJ12/visual"
)

// Mode is the player's movement mode. It scales both speed and footstep loudness.
type Mode int

const (
	ModeWalk Mode = iota
	ModeSneak
	ModeRun
)

func (m Mode) String() string {
	switch m {
	case ModeSneak:
		return "sneak"
	case ModeRun:
		return "run"
	}
	return "walk"
}

// ParseMode maps a config string onto a Mode. Empty means walk.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "walk":
		return ModeWalk, nil
	case "sneak":
		return ModeSneak, nil
	case "run":
		return ModeRun, nil
	}
	return ModeWalk, fmt.Errorf("player: unknown movement mode %q", s)
}

// Controller turns travelled distance into footstep pulses and handles the
// manual pulse. Every registered pulse is also sent to the visual sink.
type Controller struct {
	cfg      config.PlayerConfig
	registry *pulse.Registry
	sink     visual.Sink
	logger   *zap.Logger

	distanceSinceLastStep float32
	enabled               bool
}

// NewController creates an enabled controller emitting into reg.
func NewController(cfg config.PlayerConfig, reg *pulse.Registry, sink visual.Sink, logger *zap.Logger) *Controller {
	if sink == nil {
		sink = visual.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{cfg: cfg, registry: reg, sink: sink, logger: logger, enabled: true}
}

// SetEnabled turns emission on or off. A disabled controller neither
// accumulates distance nor emits.
func (c *Controller) SetEnabled(on bool) { c.enabled = on }

func (c *Controller) Enabled() bool { return c.enabled }

// DistanceSinceLastStep returns the footstep accumulator.
func (c *Controller) DistanceSinceLastStep() float32 { return c.distanceSinceLastStep }

// Speed returns the movement speed for mode.
func (c *Controller) Speed(mode Mode) float32 {
	switch mode {
	case ModeSneak:
		return c.cfg.SneakSpeed
	case ModeRun:
		return c.cfg.RunSpeed
	}
	return c.cfg.WalkSpeed
}

func (c *Controller) footstep(mode Mode) config.PulseConfig {
	switch mode {
	case ModeSneak:
		return c.cfg.Footstep.Sneak
	case ModeRun:
		return c.cfg.Footstep.Run
	}
	return c.cfg.Footstep.Walk
}

// Update accumulates the distance covered this tick and emits one footstep
// from pos once the accumulator reaches the step distance. It reports
// whether a footstep was registered.
func (c *Controller) Update(pos, velocity geom.Vec3, mode Mode, delta float32) bool {
	if !c.enabled || delta <= 0 {
		return false
	}
	c.distanceSinceLastStep += velocity.Length() * delta
	if c.distanceSinceLastStep < c.cfg.StepDistance {
		return false
	}
	c.distanceSinceLastStep = 0
	_, err := c.emit(pulse.KindFootstep, pos, c.footstep(mode), visual.ColorNone)
	if err != nil {
		c.logger.Warn("footstep skipped", zap.Stringer("mode", mode), zap.Error(err))
		return false
	}
	return true
}

// ManualPulse emits the fixed-strength sonar pulse at pos.
func (c *Controller) ManualPulse(pos geom.Vec3) (pulse.Event, error) {
	if !c.enabled {
		return pulse.Event{}, ErrControlLocked
	}
	ev, err := c.emit(pulse.KindManual, pos, c.cfg.Manual, visual.ColorWhite)
	if err != nil {
		c.logger.Warn("manual pulse skipped", zap.Error(err))
		return pulse.Event{}, err
	}
	c.logger.Debug("manual pulse", zap.String("event_id", ev.ID.String()))
	return ev, nil
}

func (c *Controller) emit(kind pulse.Kind, pos geom.Vec3, pc config.PulseConfig, color visual.ColorOverride) (pulse.Event, error) {
	ev, err := c.registry.Emit(kind, pos, pc.Velocity, pc.Lifetime())
	if err != nil {
		return pulse.Event{}, fmt.Errorf("%s pulse: %w", kind, err)
	}
	c.sink.EmitVisualPulse(visual.Pulse{
		Origin:      pos,
		Velocity:    pc.Velocity,
		Range:       pc.Range,
		MaxLifetime: ev.MaxLifetime,
		Style:       visual.Style{Type: visual.PulseNormal, Color: color},
		Source:      c.registry.Owner(),
	})
	return ev, nil
}
