package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pikol93/CJ12/game/ai"
	"github.com/pikol93/CJ12/game/geom"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DebugAPI  DebugAPIConfig  `mapstructure:"debug_api"`
	Detection DetectionConfig `mapstructure:"detection"`
	Player    PlayerConfig    `mapstructure:"player"`
	Monster   MonsterConfig   `mapstructure:"monster"`
	Ambient   AmbientConfig   `mapstructure:"ambient"`
	Visual    VisualConfig    `mapstructure:"visual"`
	Scene     SceneConfig     `mapstructure:"scene"`
}

type ServerConfig struct {
	Debug       bool `mapstructure:"debug"`
	TickMs      int  `mapstructure:"tick_ms"`
	ExitOnDeath bool `mapstructure:"exit_on_death"` // otherwise the scene reloads
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty = stderr only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type DebugAPIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Addr           string  `mapstructure:"addr"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	EventBuffer    int     `mapstructure:"event_buffer"`
	// AllowedCIDRs limits which clients may call the API. Empty allows all.
	AllowedCIDRs []string `mapstructure:"allowed_cidrs"`
}

type DetectionConfig struct {
	// ClaimPolicy decides which listener consumes a pulse that reaches
	// several at once: "nearest" or "first".
	ClaimPolicy string `mapstructure:"claim_policy"`
}

// PulseConfig describes one kind of emission. A zero MaxLifetime is derived
// as Range / Velocity.
type PulseConfig struct {
	Velocity    float32 `mapstructure:"velocity"`
	Range       float32 `mapstructure:"range"`
	MaxLifetime float32 `mapstructure:"max_lifetime"`
}

// Lifetime returns the configured or derived lifetime.
func (p PulseConfig) Lifetime() float32 {
	if p.MaxLifetime > 0 {
		return p.MaxLifetime
	}
	if p.Velocity <= 0 {
		return 0
	}
	return p.Range / p.Velocity
}

func (p PulseConfig) validate(name string) error {
	if p.Velocity <= 0 {
		return fmt.Errorf("%s.velocity must be > 0", name)
	}
	if p.Range <= 0 {
		return fmt.Errorf("%s.range must be > 0", name)
	}
	if p.Lifetime() <= 0 {
		return fmt.Errorf("%s.max_lifetime must be > 0", name)
	}
	return nil
}

type FootstepConfig struct {
	Sneak PulseConfig `mapstructure:"sneak"`
	Walk  PulseConfig `mapstructure:"walk"`
	Run   PulseConfig `mapstructure:"run"`
}

type PlayerConfig struct {
	SneakSpeed       float32        `mapstructure:"sneak_speed"`
	WalkSpeed        float32        `mapstructure:"walk_speed"`
	RunSpeed         float32        `mapstructure:"run_speed"`
	MouseSensitivity float32        `mapstructure:"mouse_sensitivity"`
	StepDistance     float32        `mapstructure:"step_distance"`
	DetectionEpsilon float32        `mapstructure:"detection_epsilon"`
	Footstep         FootstepConfig `mapstructure:"footstep"`
	Manual           PulseConfig    `mapstructure:"manual"`
}

type MonsterConfig struct {
	WalkSpeed        float32     `mapstructure:"walk_speed"`
	RunSpeed         float32     `mapstructure:"run_speed"`
	TargetThreshold  float32     `mapstructure:"target_threshold"`
	KillZoneRadius   float32     `mapstructure:"kill_zone_radius"`
	KillHoldDistance float32     `mapstructure:"kill_hold_distance"`
	DetectionEpsilon float32     `mapstructure:"detection_epsilon"`
	EyesHeight       float32     `mapstructure:"eyes_height"`
	Idle             ai.Range    `mapstructure:"idle"`
	Roar             ai.Range    `mapstructure:"roar"`
	EchoPassive      ai.Range    `mapstructure:"echo_passive"`
	EchoAggressive   ai.Range    `mapstructure:"echo_aggressive"`
	RoarPulse        PulseConfig `mapstructure:"roar_pulse"`
	RoarBurstCount   int         `mapstructure:"roar_burst_count"`
	RoarBurstDelay   float32     `mapstructure:"roar_burst_delay"`
	EchoPulse        PulseConfig `mapstructure:"echo_pulse"`
	KillAnimationSec float32     `mapstructure:"kill_animation_sec"`
}

type PulsatorConfig struct {
	Name                 string    `mapstructure:"name"`
	Position             geom.Vec3 `mapstructure:"position"`
	Velocity             float32   `mapstructure:"velocity"`
	Range                float32   `mapstructure:"range"`
	RepeatTime           float32   `mapstructure:"repeat_time"`
	MaxLifetime          float32   `mapstructure:"max_lifetime"`
	FixedLifetime        bool      `mapstructure:"fixed_lifetime"` // disables repeat+range/velocity
	Disabled             bool      `mapstructure:"disabled"`
	MaxDistanceToPlayer  float32   `mapstructure:"max_distance_to_player"`
	IgnorePlayerDistance bool      `mapstructure:"ignore_player_distance"`
}

type AmbientConfig struct {
	Pulsators []PulsatorConfig `mapstructure:"pulsators"`
}

type VisualConfig struct {
	Capacity      int     `mapstructure:"capacity"`
	PruneInterval float32 `mapstructure:"prune_interval"`
}

type MonsterSpawn struct {
	Name     string    `mapstructure:"name"`
	Position geom.Vec3 `mapstructure:"position"`
}

type GridCell struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

type GridConfig struct {
	Width    int        `mapstructure:"width"`
	Height   int        `mapstructure:"height"`
	CellSize float32    `mapstructure:"cell_size"`
	Origin   geom.Vec3  `mapstructure:"origin"`
	Blocked  []GridCell `mapstructure:"blocked"`
}

type SceneConfig struct {
	PlayerSpawn geom.Vec3      `mapstructure:"player_spawn"`
	Monsters    []MonsterSpawn `mapstructure:"monsters"`
	Waypoints   []geom.Vec3    `mapstructure:"waypoints"`
	Grid        GridConfig     `mapstructure:"grid"`
	// Scripted player input for headless runs.
	PlayerPatrol     []geom.Vec3 `mapstructure:"player_patrol"`
	PlayerMode       string      `mapstructure:"player_mode"`
	ManualPulseEvery float32     `mapstructure:"manual_pulse_every"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.debug", false)
	v.SetDefault("server.tick_ms", 16)
	v.SetDefault("server.exit_on_death", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("debug_api.enabled", false)
	v.SetDefault("debug_api.addr", "127.0.0.1:7070")
	v.SetDefault("debug_api.rate_limit_rps", 20)
	v.SetDefault("debug_api.rate_limit_burst", 40)
	v.SetDefault("debug_api.event_buffer", 256)
	v.SetDefault("debug_api.allowed_cidrs", []string{"127.0.0.0/8", "::1/128"})
	v.SetDefault("detection.claim_policy", "nearest")

	v.SetDefault("player.sneak_speed", 1.5)
	v.SetDefault("player.walk_speed", 3.0)
	v.SetDefault("player.run_speed", 5.5)
	v.SetDefault("player.mouse_sensitivity", 0.003)
	v.SetDefault("player.step_distance", 1.6)
	v.SetDefault("player.detection_epsilon", 0.0)
	v.SetDefault("player.footstep.sneak.velocity", 4.0)
	v.SetDefault("player.footstep.sneak.range", 3.0)
	v.SetDefault("player.footstep.walk.velocity", 6.0)
	v.SetDefault("player.footstep.walk.range", 7.0)
	v.SetDefault("player.footstep.run.velocity", 9.0)
	v.SetDefault("player.footstep.run.range", 14.0)
	v.SetDefault("player.manual.velocity", 12.0)
	v.SetDefault("player.manual.range", 24.0)

	v.SetDefault("monster.walk_speed", 2.5)
	v.SetDefault("monster.run_speed", 5.0)
	v.SetDefault("monster.target_threshold", 1.0)
	v.SetDefault("monster.kill_zone_radius", 1.5)
	v.SetDefault("monster.kill_hold_distance", 1.2)
	v.SetDefault("monster.detection_epsilon", 0.25)
	v.SetDefault("monster.eyes_height", 1.7)
	v.SetDefault("monster.idle.min", 3.0)
	v.SetDefault("monster.idle.max", 6.0)
	v.SetDefault("monster.roar.min", 12.0)
	v.SetDefault("monster.roar.max", 20.0)
	v.SetDefault("monster.echo_passive.min", 2.0)
	v.SetDefault("monster.echo_passive.max", 2.2)
	v.SetDefault("monster.echo_aggressive.min", 1.0)
	v.SetDefault("monster.echo_aggressive.max", 1.2)
	v.SetDefault("monster.roar_pulse.velocity", 8.0)
	v.SetDefault("monster.roar_pulse.range", 30.0)
	v.SetDefault("monster.roar_burst_count", 3)
	v.SetDefault("monster.roar_burst_delay", 0.15)
	v.SetDefault("monster.echo_pulse.velocity", 10.0)
	v.SetDefault("monster.echo_pulse.range", 15.0)
	v.SetDefault("monster.kill_animation_sec", 2.5)

	v.SetDefault("visual.capacity", 256)
	v.SetDefault("visual.prune_interval", 0.2)

	v.SetDefault("scene.grid.width", 40)
	v.SetDefault("scene.grid.height", 40)
	v.SetDefault("scene.grid.cell_size", 1.0)
	v.SetDefault("scene.grid.origin", map[string]interface{}{"x": -20.0, "y": 0.0, "z": -20.0})
	v.SetDefault("scene.player_mode", "walk")
	v.SetDefault("scene.manual_pulse_every", 0.0)
}

// applySceneDefaults fills the demo scene when the file leaves it empty.
func applySceneDefaults(cfg *Config) {
	sc := &cfg.Scene
	if len(sc.Monsters) == 0 {
		sc.Monsters = []MonsterSpawn{{Name: "stalker", Position: geom.V(8, 0, 8)}}
	}
	if len(sc.Waypoints) == 0 {
		sc.Waypoints = []geom.Vec3{
			geom.V(8, 0, 8), geom.V(-8, 0, 8), geom.V(-8, 0, -8), geom.V(8, 0, -8), geom.V(0, 0, 12),
		}
	}
	if len(sc.PlayerPatrol) == 0 {
		sc.PlayerPatrol = []geom.Vec3{geom.V(-10, 0, -10), geom.V(10, 0, -10), geom.V(10, 0, 10), geom.V(-10, 0, 10)}
	}
	for i := range cfg.Ambient.Pulsators {
		p := &cfg.Ambient.Pulsators[i]
		if p.Velocity == 0 {
			p.Velocity = 3
		}
		if p.Range == 0 {
			p.Range = 4
		}
		if p.RepeatTime == 0 {
			p.RepeatTime = 6
		}
		if p.MaxLifetime == 0 {
			p.MaxLifetime = p.RepeatTime
		}
		if p.MaxDistanceToPlayer == 0 {
			p.MaxDistanceToPlayer = 50
		}
	}
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applySceneDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Default returns the built-in configuration without reading a file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// The defaults are static; failing here is a programming error.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if c.Server.TickMs <= 0 {
		add(errors.New("server.tick_ms must be > 0"))
	}
	switch c.Detection.ClaimPolicy {
	case "", "nearest", "first":
	default:
		add(fmt.Errorf("detection.claim_policy %q is not nearest|first", c.Detection.ClaimPolicy))
	}

	p := c.Player
	if p.StepDistance <= 0 {
		add(errors.New("player.step_distance must be > 0"))
	}
	if !(p.SneakSpeed > 0 && p.SneakSpeed <= p.WalkSpeed && p.WalkSpeed <= p.RunSpeed) {
		add(errors.New("player speeds must satisfy 0 < sneak <= walk <= run"))
	}
	add(p.Footstep.Sneak.validate("player.footstep.sneak"))
	add(p.Footstep.Walk.validate("player.footstep.walk"))
	add(p.Footstep.Run.validate("player.footstep.run"))
	add(p.Manual.validate("player.manual"))

	m := c.Monster
	if m.WalkSpeed <= 0 || m.RunSpeed <= 0 {
		add(errors.New("monster speeds must be > 0"))
	}
	if m.TargetThreshold <= 0 {
		add(errors.New("monster.target_threshold must be > 0"))
	}
	if m.KillZoneRadius < 0 {
		add(errors.New("monster.kill_zone_radius must be >= 0"))
	}
	for name, r := range map[string]ai.Range{
		"monster.idle":            m.Idle,
		"monster.roar":            m.Roar,
		"monster.echo_passive":    m.EchoPassive,
		"monster.echo_aggressive": m.EchoAggressive,
	} {
		if !r.Valid() {
			add(fmt.Errorf("%s: need 0 <= min <= max, got [%v, %v]", name, r.Min, r.Max))
		}
	}
	if m.RoarBurstCount < 1 {
		add(errors.New("monster.roar_burst_count must be >= 1"))
	}
	if m.RoarBurstDelay < 0 {
		add(errors.New("monster.roar_burst_delay must be >= 0"))
	}
	add(m.RoarPulse.validate("monster.roar_pulse"))
	add(m.EchoPulse.validate("monster.echo_pulse"))

	for i, pc := range c.Ambient.Pulsators {
		if pc.Velocity <= 0 || pc.RepeatTime <= 0 {
			add(fmt.Errorf("ambient.pulsators[%d]: velocity and repeat_time must be > 0", i))
		}
	}
	if c.Scene.Grid.Width <= 0 || c.Scene.Grid.Height <= 0 {
		add(errors.New("scene.grid width and height must be > 0"))
	}
	return errors.Join(errs...)
}
