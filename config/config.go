// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Player    PlayerConfig    `yaml:"player"`
	Weapons   WeaponsConfig   `yaml:"weapons"`
	Enemies   EnemiesConfig   `yaml:"enemies"`
	Gems      GemsConfig      `yaml:"gems"`
	Effects   EffectsConfig   `yaml:"effects"`
	Levels    LevelsConfig    `yaml:"levels"`
	Upgrades  UpgradesConfig  `yaml:"upgrades"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audio     AudioConfig     `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds playfield and frame rate settings.
// The playfield is the window; the status bar occupies its top rows.
type ScreenConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	TargetFPS       int `yaml:"target_fps"`
	StatusBarHeight int `yaml:"status_bar_height"`
}

// PlayerConfig holds the player ship parameters.
type PlayerConfig struct {
	StartX          float64 `yaml:"start_x"`
	StartY          float64 `yaml:"start_y"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Health          int     `yaml:"health"`
	CollisionDamage int     `yaml:"collision_damage"`
	Accel           float64 `yaml:"accel"`
	MaxSpeed        float64 `yaml:"max_speed"`
	Brakes          float64 `yaml:"brakes"`   // Acceleration multiplier when reversing direction
	Damping         float64 `yaml:"damping"`  // Velocity multiplier per idle frame
	Bounce          float64 `yaml:"bounce"`   // Velocity multiplier on border hit (negative)
	HistoryLen      int     `yaml:"history_len"`
	SpeedCap        float64 `yaml:"speed_cap"` // Ship speed contribution cap on impacts
}

// WeaponsConfig holds the main gun and auxiliary weapon parameters.
type WeaponsConfig struct {
	FireCooldown       float64 `yaml:"fire_cooldown"`        // Seconds between volleys
	BurstCooldownTicks int     `yaml:"burst_cooldown_ticks"` // Ticks between shots inside a burst
	Spread             float64 `yaml:"spread"`               // Degrees
	InitialSpread      float64 `yaml:"initial_spread"`       // Spread when going from 1 to 2 projectiles
	SpreadGrowth       float64 `yaml:"spread_growth"`
	MaxSpread          float64 `yaml:"max_spread"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ShotDamage         int     `yaml:"shot_damage"`
	ShotWidth          int     `yaml:"shot_width"`
	ShotHeight         int     `yaml:"shot_height"`
	MuzzleInset        float64 `yaml:"muzzle_inset"`

	Wingman        WingmanConfig        `yaml:"wingman"`
	RotatingShield RotatingShieldConfig `yaml:"rotating_shield"`
	Deflector      DeflectorConfig      `yaml:"deflector"`
}

// WingmanConfig holds escort parameters.
type WingmanConfig struct {
	Offsets       [][2]float64 `yaml:"offsets"` // Consumed from the end, two per upgrade
	FireTicks     int          `yaml:"fire_ticks"`
	EaseSeconds   float64      `yaml:"ease_seconds"`
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	MissileSpeed  float64      `yaml:"missile_speed"`
	MissileAccel  float64      `yaml:"missile_accel"`
	MissileDamage int          `yaml:"missile_damage"`
	MissileOffset float64      `yaml:"missile_offset"`
}

// RotatingShieldConfig holds orbiting shield parameters.
type RotatingShieldConfig struct {
	MaxRadius      float64 `yaml:"max_radius"`
	RadiusSpeed    float64 `yaml:"radius_speed"`
	RotationSpeed  float64 `yaml:"rotation_speed"` // Degrees per frame
	Health         int     `yaml:"health"`
	Damage         int     `yaml:"damage"`
	Size           int     `yaml:"size"`
	RespawnSeconds float64 `yaml:"respawn_seconds"`
	PerUpgrade     int     `yaml:"per_upgrade"`
}

// DeflectorConfig holds the power shield parameters.
type DeflectorConfig struct {
	MaxLevel        int     `yaml:"max_level"`
	RechargeSeconds float64 `yaml:"recharge_seconds"`
	Damage          int     `yaml:"damage"`
	OffsetX         float64 `yaml:"offset_x"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
}

// EnemiesConfig holds the enemy and enemy projectile catalog.
type EnemiesConfig struct {
	KillOffset float64 `yaml:"kill_offset"`
	FlashTicks int     `yaml:"flash_ticks"`

	Swarmer     SwarmerConfig     `yaml:"swarmer"`
	Asteroid    AsteroidConfig    `yaml:"asteroid"`
	Chaser      ChaserConfig      `yaml:"chaser"`
	SineShip    SineShipConfig    `yaml:"sine_ship"`
	OrbitBoss   OrbitBossConfig   `yaml:"orbit_boss"`
	SlashBullet SlashBulletConfig `yaml:"slash_bullet"`
	FireBullet  FireBulletConfig  `yaml:"fire_bullet"`
	Bullet      BulletConfig      `yaml:"bullet"`
}

// SwarmerConfig holds homing swarmer parameters.
type SwarmerConfig struct {
	Speed           float64 `yaml:"speed"`
	Health          int     `yaml:"health"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	Size            int     `yaml:"size"`
	SpawnOffsetX    float64 `yaml:"spawn_offset_x"`
}

// AsteroidConfig holds asteroid parameters. Health, damage and score derive from the size tier.
type AsteroidConfig struct {
	Tier          int     `yaml:"tier"`
	PixelSize     int     `yaml:"pixel_size"` // Diameter per tier
	DamagePerTier int     `yaml:"damage_per_tier"`
	ScorePerTier  int     `yaml:"score_per_tier"`
	Retries       int     `yaml:"retries"`
	MarginY       int     `yaml:"margin_y"`
	MinSpeedX     float64 `yaml:"min_speed_x"`
	SpeedXRange   float64 `yaml:"speed_x_range"`
	SpeedYRange   float64 `yaml:"speed_y_range"`
}

// ChaserConfig holds chaser ship parameters.
type ChaserConfig struct {
	ChaseEvery      float64 `yaml:"chase_every"` // Seconds between retargets
	ChaseTime       float64 `yaml:"chase_time"`  // Seconds per chase tween
	Inertia         float64 `yaml:"inertia"`
	SpeedX          float64 `yaml:"speed_x"`
	Health          int     `yaml:"health"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	Size            int     `yaml:"size"`
}

// SineShipConfig holds sinusoidal ship parameters.
type SineShipConfig struct {
	SpeedX          float64 `yaml:"speed_x"`
	Accel           float64 `yaml:"accel"`
	SwitchTicks     int     `yaml:"switch_ticks"`
	ShootTime       float64 `yaml:"shoot_time"` // Seconds between shots
	Level           int     `yaml:"level"`
	GroupSpacing    float64 `yaml:"group_spacing"`
	FirstShotDelay  float64 `yaml:"first_shot_delay"` // Seconds per squadron index
	KillOffset      float64 `yaml:"kill_offset"`      // Per squadron member
	MarginY         int     `yaml:"margin_y"`
	Health          int     `yaml:"health"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
}

// OrbitBossConfig holds boss parameters.
type OrbitBossConfig struct {
	AnchorX         float64 `yaml:"anchor_x"` // Fraction of playfield width
	AnchorY         float64 `yaml:"anchor_y"` // Fraction of playfield height
	RadiusX         float64 `yaml:"radius_x"`
	RadiusY         float64 `yaml:"radius_y"`
	AngularSpeed    float64 `yaml:"angular_speed"` // Degrees per frame
	EntrySeconds    float64 `yaml:"entry_seconds"`
	FireSeconds     float64 `yaml:"fire_seconds"`
	BurstCount      int     `yaml:"burst_count"`
	BulletSpeed     float64 `yaml:"bullet_speed"`
	Health          int     `yaml:"health"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
}

// SlashBulletConfig holds curving bullet parameters.
type SlashBulletConfig struct {
	SpeedX   float64 `yaml:"speed_x"`
	AccelX   float64 `yaml:"accel_x"`
	Homing   float64 `yaml:"homing"`
	MaxSpeed float64 `yaml:"max_speed"`
	Damage   int     `yaml:"damage"`
	Size     int     `yaml:"size"`
	MarginY  int     `yaml:"margin_y"`
}

// FireBulletConfig holds heavy fireball parameters.
type FireBulletConfig struct {
	SpeedX  float64 `yaml:"speed_x"`
	Damage  int     `yaml:"damage"`
	Size    int     `yaml:"size"`
	MarginY int     `yaml:"margin_y"`
}

// BulletConfig holds the small bullets fired by ships.
type BulletConfig struct {
	SimpleSpeed   float64 `yaml:"simple_speed"`
	TargetedSpeed float64 `yaml:"targeted_speed"`
	Damage        int     `yaml:"damage"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	RoundSize     int     `yaml:"round_size"`
}

// GemsConfig holds pickup parameters.
type GemsConfig struct {
	PickupRadius float64 `yaml:"pickup_radius"`
	DriftSpeed   float64 `yaml:"drift_speed"`
	HomingSpeed  float64 `yaml:"homing_speed"`
	DropChance   float64 `yaml:"drop_chance"`
	Values       []int   `yaml:"values"` // Score value per gem level (index 0 = level 1)
	Size         int     `yaml:"size"`
}

// EffectsConfig holds explosion parameters.
type EffectsConfig struct {
	ExplosionFrames     int `yaml:"explosion_frames"`
	ExplosionFrameTicks int `yaml:"explosion_frame_ticks"`
	ExplosionSize       int `yaml:"explosion_size"`
}

// LevelsConfig holds the level table.
type LevelsConfig struct {
	StartPause time.Duration `yaml:"start_pause"`
	List       []LevelConfig `yaml:"list"`
}

// LevelConfig defines one level of the plan.
// A zero duration marks a boss level that ends when the boss is destroyed.
type LevelConfig struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	EndPause time.Duration `yaml:"end_pause"`
	Spawns   []SpawnConfig `yaml:"spawns"`
}

// SpawnConfig defines a recurring spawn event inside a level.
// Every of 1ms posts the event once; Repeat 0 repeats until the level ends.
type SpawnConfig struct {
	Event     string        `yaml:"event"`
	Every     time.Duration `yaml:"every"`
	Repeat    int           `yaml:"repeat,omitempty"`
	Group     int           `yaml:"group,omitempty"`
	Level     int           `yaml:"level,omitempty"`
	ShootTime float64       `yaml:"shoot_time,omitempty"`
}

// UpgradesConfig holds upgrade table parameters.
type UpgradesConfig struct {
	ThresholdFactor int     `yaml:"threshold_factor"` // next = lvl*(lvl+1)*factor
	Choices         int     `yaml:"choices"`
	MaxHealthGain   float64 `yaml:"max_health_gain"`
	FireRateFactor  float64 `yaml:"fire_rate_factor"`
	SpeedFactor     float64 `yaml:"speed_factor"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// AudioConfig holds synthesizer parameters.
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FPS       float64       // Screen.TargetFPS as float64
	Tick      time.Duration // Simulated time per frame
	Width     float64       // Playfield width
	Height    float64       // Playfield height
	Top       float64       // First playable row below the status bar
	FireTicks float64       // Weapons.FireCooldown in frames
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Clone returns a deep copy of the configuration through a YAML round trip.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	out.computeDerived()
	return out, nil
}

func (c *Config) validate() error {
	if c.Screen.TargetFPS <= 0 {
		return fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Player.HistoryLen < 1 {
		return fmt.Errorf("player.history_len must be at least 1, got %d", c.Player.HistoryLen)
	}
	for i, lvl := range c.Levels.List {
		for j, sp := range lvl.Spawns {
			if sp.Every <= 0 {
				return fmt.Errorf("levels.list[%d].spawns[%d]: every must be positive", i, j)
			}
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FPS = float64(c.Screen.TargetFPS)
	c.Derived.Tick = time.Second / time.Duration(c.Screen.TargetFPS)
	c.Derived.Width = float64(c.Screen.Width)
	c.Derived.Height = float64(c.Screen.Height)
	c.Derived.Top = float64(c.Screen.StatusBarHeight)
	c.Derived.FireTicks = c.Weapons.FireCooldown * c.Derived.FPS
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
