// Package world owns one running scene: the simulation clock, the player, the
// monsters and the ambient emitters, ticked in a fixed order on a single
// goroutine.
package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/ambient"
	"github.com/pikol93/CJ12/game/geom"
	"github.com/pikol93/CJ12/game/monster"
	"github.com/pikol93/CJ12/game/player"
	"github.com/pikol93/CJ12/game/pulse"
	"github.com/pikol93/CJ12/scheduler"
	"github.com/pikol93/CJ12/visual"
)

// Reason says why a world stopped running.
type Reason int

const (
	ReasonStopped Reason = iota
	ReasonPlayerKilled
)

func (r Reason) String() string {
	if r == ReasonPlayerKilled {
		return "player_killed"
	}
	return "stopped"
}

var ErrStopped = errors.New("world: stopped")

const commandQueueSize = 64

// Options carries optional collaborators. Zero values get headless defaults.
type Options struct {
	Logger *zap.Logger
	Bus    *eventbus.Bus
	// Input replaces the scripted input built from the scene config.
	Input player.InputSource
	// Seed feeds the monsters' timer randomness. Zero means time-seeded.
	Seed int64
}

type command struct {
	fn  func(w *World) error
	res chan error
}

// World is one scene. Everything except Do and Stop must be called from
// the goroutine that runs Tick.
type World struct {
	cfg    *config.Config
	clock  *pulse.Clock
	sched  *scheduler.Scheduler
	shared ai.Shared
	grid   *ai.Grid

	player    *player.Agent
	monsters  []*monster.Monster
	listeners []pulse.Listener
	pulsators []*ambient.Pulsator

	visual *visual.Buffer
	sink   visual.Sink

	playerDetector  pulse.Detector
	monsterDetector pulse.Detector

	bus    *eventbus.Bus
	logger *zap.Logger

	ticks    uint64
	cmds     chan command
	stopCh   chan struct{}
	exited   chan struct{}
	finished bool
	reason   Reason
}

// New builds the scene described by cfg. The world is not running until Run
// (or Tick) is called.
func New(cfg *config.Config, opts Options) (*World, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy, err := pulse.ParseClaimPolicy(cfg.Detection.ClaimPolicy)
	if err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		cfg:             cfg,
		clock:           pulse.NewClock(),
		sched:           scheduler.New(logger),
		grid:            buildGrid(cfg.Scene.Grid),
		bus:             opts.Bus,
		logger:          logger,
		playerDetector:  pulse.Detector{Epsilon: cfg.Player.DetectionEpsilon, Policy: policy},
		monsterDetector: pulse.Detector{Epsilon: cfg.Monster.DetectionEpsilon, Policy: policy},
		cmds:            make(chan command, commandQueueSize),
		stopCh:          make(chan struct{}),
		exited:          make(chan struct{}),
	}
	w.visual = visual.NewBuffer(w.clock, cfg.Visual.Capacity)
	w.sink = w.visual
	if opts.Bus != nil {
		w.sink = visual.Multi{w.visual, visual.NewBusSink(opts.Bus, logger)}
	}

	input := opts.Input
	if input == nil {
		si, err := NewScriptedInput(cfg.Scene)
		if err != nil {
			return nil, err
		}
		input = si
	}
	body := GridBody{Grid: w.grid}
	w.player, err = player.NewAgent(cfg.Scene.PlayerSpawn, cfg.Player, w.clock, input, body, w.sink, logger)
	if err != nil {
		return nil, fmt.Errorf("world: player: %w", err)
	}
	w.player.OnDeath(func() { w.finish(ReasonPlayerKilled) })

	waypoints := Waypoints(cfg.Scene.Waypoints)
	for i, spawn := range cfg.Scene.Monsters {
		id := spawn.Name
		if id == "" {
			id = fmt.Sprintf("monster-%d", i)
		}
		nav := ai.NewGridNavigator(w.grid)
		eyes := &FollowAnchor{Offset: geom.V(0, cfg.Monster.EyesHeight, 0)}
		m, err := monster.New(id, spawn.Position, cfg.Monster, monster.Deps{
			Clock:         w.clock,
			Navigator:     nav,
			Body:          body,
			Eyes:          eyes,
			Animator:      NewTimedAnimator(w.clock, cfg.Monster.KillAnimationSec),
			Death:         w.player,
			Waypoints:     waypoints,
			Visual:        w.sink,
			Logger:        logger,
			Rand:          rand.New(rand.NewSource(rng.Int63())),
			OnStateChange: w.onStateChange,
		})
		if err != nil {
			return nil, fmt.Errorf("world: %w", err)
		}
		nav.Follow(m)
		eyes.Target = m
		w.monsters = append(w.monsters, m)
		w.listeners = append(w.listeners, m)
	}

	for _, pc := range cfg.Ambient.Pulsators {
		w.pulsators = append(w.pulsators, ambient.New(pc, w.sink, logger))
	}

	w.sched.AddTicker("visual/prune", cfg.Visual.PruneInterval, func() {
		w.visual.Prune(w.clock.Now())
	})

	logger.Info("world created",
		zap.Int("monsters", len(w.monsters)),
		zap.Int("pulsators", len(w.pulsators)),
		zap.Stringer("claim_policy", policy))
	return w, nil
}

func buildGrid(gc config.GridConfig) *ai.Grid {
	g := ai.NewGrid(gc.Width, gc.Height, gc.CellSize, gc.Origin)
	for _, c := range gc.Blocked {
		g.Block(c.X, c.Y)
	}
	return g
}

// Tick advances the simulation by delta seconds in a fixed order:
// queued commands, clock and deferred tasks, registry pruning, player,
// player-to-monster detection, monsters, monster-to-player detection,
// ambient emitters.
func (w *World) Tick(delta float32) {
	if w.finished {
		return
	}
	w.drainCommands()

	w.clock.Advance(delta)
	now := w.clock.Now()
	w.sched.Advance(now)
	w.ticks++

	w.player.Registry().PruneExpired(now)
	for _, m := range w.monsters {
		m.Registry().PruneExpired(now)
	}

	ctx := ai.TickContext{Now: now, Delta: delta, Shared: &w.shared, Defer: w.sched}
	w.player.Tick(ctx)

	w.playerDetector.Detect(w.player.Registry(), now, w.listeners, w.onPlayerPulseHeard)

	if w.player.IsAlive() {
		ctx.Player = w.player
	}
	for _, m := range w.monsters {
		m.Tick(ctx)
	}

	for _, m := range w.monsters {
		w.monsterDetector.DetectOne(m.Registry(), now, w.player, func(d pulse.Detection) {
			m.Alert(d.ListenerPosition)
			w.logger.Debug("echo reached player",
				zap.String("monster_id", m.ID()),
				zap.Float32("distance", d.Distance),
				zap.Float32("now", now))
			w.publish(eventbus.ChannelDetection, newDetectionEvent(MonsterToPlayer, m.ID(), d, d.ListenerPosition))
		})
	}

	for _, p := range w.pulsators {
		p.Tick(ctx)
	}
}

// onPlayerPulseHeard alerts the monster that claimed a player pulse. The
// monster is told where the pulse started, not where the player is now.
func (w *World) onPlayerPulseHeard(d pulse.Detection) {
	m, ok := d.Listener.(*monster.Monster)
	if !ok {
		return
	}
	m.Alert(d.Event.Origin)
	w.logger.Debug("player pulse heard",
		zap.String("monster_id", m.ID()),
		zap.Stringer("kind", d.Event.Kind),
		zap.Float32("distance", d.Distance),
		zap.Float32("now", d.At))
	w.publish(eventbus.ChannelDetection, newDetectionEvent(PlayerToMonster, m.ID(), d, d.Event.Origin))
}

func (w *World) onStateChange(m *monster.Monster, from, to monster.State) {
	w.publish(eventbus.ChannelState, StateEvent{
		MonsterID: m.ID(),
		From:      from.Kind(),
		To:        to.Kind(),
		Position:  m.Position(),
		At:        w.clock.Now(),
	})
}

func (w *World) finish(r Reason) {
	if w.finished {
		return
	}
	w.finished = true
	w.reason = r
	w.logger.Info("world finished", zap.Stringer("reason", r), zap.Float32("now", w.clock.Now()))
	w.publishLifecycle(r.String())
}

// Run ticks the world at the configured rate until the player dies, Stop is
// called or ctx is cancelled. Each tick advances simulation time by exactly
// one tick interval.
func (w *World) Run(ctx context.Context) Reason {
	interval := time.Duration(w.cfg.Server.TickMs) * time.Millisecond
	delta := float32(interval.Seconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer w.rejectPending()
	defer close(w.exited)

	w.publishLifecycle("started")
	for !w.finished {
		select {
		case <-ticker.C:
			w.Tick(delta)
		case <-w.stopCh:
			w.finish(ReasonStopped)
		case <-ctx.Done():
			w.finish(ReasonStopped)
		}
	}
	return w.reason
}

// Stop asks Run to return. Safe to call from any goroutine, more than once.
func (w *World) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
}

// Do runs fn on the simulation goroutine at the start of the next tick and
// waits for its result.
func (w *World) Do(ctx context.Context, fn func(w *World) error) error {
	cmd := command{fn: fn, res: make(chan error, 1)}
	select {
	case w.cmds <- cmd:
	case <-w.exited:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.res:
		return err
	case <-w.exited:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *World) drainCommands() {
	for {
		select {
		case cmd := <-w.cmds:
			cmd.res <- w.runCommand(cmd.fn)
		default:
			return
		}
	}
}

func (w *World) runCommand(fn func(w *World) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("world command panicked", zap.Any("recover", r))
			err = fmt.Errorf("world: command panicked: %v", r)
		}
	}()
	return fn(w)
}

func (w *World) rejectPending() {
	for {
		select {
		case cmd := <-w.cmds:
			cmd.res <- ErrStopped
		default:
			return
		}
	}
}

func (w *World) Now() float32                 { return w.clock.Now() }
func (w *World) Ticks() uint64                { return w.ticks }
func (w *World) Player() *player.Agent        { return w.player }
func (w *World) Monsters() []*monster.Monster { return w.monsters }
func (w *World) Visual() *visual.Buffer       { return w.visual }
func (w *World) Finished() bool               { return w.finished }
func (w *World) Reason() Reason               { return w.reason }

// Monster looks a monster up by id.
func (w *World) Monster(id string) (*monster.Monster, bool) {
	for _, m := range w.monsters {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}
