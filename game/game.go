// Package game wires the systems into the frame-stepped shooter simulation.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/audio"
	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/config"
	"github.com/pthm-cable/starfall/systems"
	"github.com/pthm-cable/starfall/telemetry"
)

// State is the run state. Only StatePlaying advances the simulation.
type State uint8

const (
	StatePlaying State = iota
	StateUpgrade
	StateGameOver
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateUpgrade:
		return "upgrade"
	case StateGameOver:
		return "game_over"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Options configures a run.
type Options struct {
	Seed           int64
	LogStats       bool    // Log window stats to stdout
	StatsWindowSec float64 // Stats window in simulated seconds, 0 uses the config value
	OutputDir      string  // Directory for CSV output, empty disables it

	Audio audio.Sink         // Nil discards sound triggers
	Input systems.InputState // Nil means no input

	// AutoUpgrade applies the first offered upgrade instead of pausing.
	AutoUpgrade bool

	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	arena      *systems.Arena
	tweens     *systems.TweenSystem
	spawner    *systems.Spawner
	weapons    *systems.WeaponsController
	ship       *systems.ShipSystem
	behavior   *systems.BehaviorSystem
	kinematics *systems.KinematicsSystem
	resolver   *systems.Resolver
	sched      *systems.Scheduler
	levels     *systems.LevelController
	registry   *systems.SystemRegistry

	// damage applies combat damage to enemies; the arena unless replaced in tests
	damage systems.DamageApplier

	commands systems.CommandQueue
	ctx      systems.Context
	player   ecs.Entity
	input    systems.InputState
	audio    audio.Sink

	// State
	tick         int32
	state        State
	score        int
	upgradeLevel int
	nextUpgrade  int
	choices      []UpgradeKind
	autoUpgrade  bool

	// Per-frame scratch buffers
	due      []systems.Event
	escaped  []ecs.Entity
	enemies  []systems.Collider
	hostiles []systems.Collider
	shots    []systems.Collider
	gems     []systems.Collider
	views    *viewFilter

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGame creates a game from cfg. The level table is validated here, so a
// bad spawn name fails before the first frame.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	levels, err := systems.LevelsFromConfig(cfg.Levels)
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bounds := systems.Bounds{Width: cfg.Derived.Width, Height: cfg.Derived.Height, Top: cfg.Derived.Top}

	arena := systems.NewArena()
	tweens := systems.NewTweenSystem(arena, cfg.Derived.FPS)
	spawner := systems.NewSpawner(cfg, arena, tweens, rng)
	sched := systems.NewScheduler()

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		seed:          opts.Seed,
		arena:         arena,
		tweens:        tweens,
		spawner:       spawner,
		weapons:       systems.NewWeaponsController(cfg, arena, spawner, tweens),
		ship:          systems.NewShipSystem(arena, bounds),
		behavior:      systems.NewBehaviorSystem(arena),
		kinematics:    systems.NewKinematicsSystem(arena, bounds),
		resolver:      systems.NewArenaResolver(arena, bounds.Width, bounds.Height),
		sched:         sched,
		levels:        systems.NewLevelController(levels, sched, cfg.Levels.StartPause),
		registry:      systems.NewSystemRegistry(),
		damage:        arena,
		input:         opts.Input,
		audio:         opts.Audio,
		upgradeLevel:  1,
		autoUpgrade:   opts.AutoUpgrade,
		collector:     telemetry.NewCollector(window, cfg.Derived.Tick.Seconds()),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		views:         newViewFilter(arena.World()),
	}
	if g.input == nil {
		g.input = systems.NoInput{}
	}
	if g.audio == nil {
		g.audio = audio.Discard{}
	}
	g.nextUpgrade = UpgradeThreshold(g.upgradeLevel, cfg.Upgrades.ThresholdFactor)
	g.spawnPlayer()

	g.ctx = systems.Context{
		Player:   g.player,
		Commands: &g.commands,
		Tweens:   tweens,
		Rng:      rng,
		FPS:      cfg.Derived.FPS,
		Bounds:   bounds,
		Kill:     arena.Kill,
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"levels", len(levels),
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"fps", cfg.Screen.TargetFPS,
	)
	return g, nil
}

func (g *Game) spawnPlayer() {
	c := g.cfg.Player
	g.player = g.spawner.SpawnPlayer()

	start := components.Position{X: c.StartX, Y: c.StartY}
	ship := components.NewShip(start, c.HistoryLen, c.Health)
	ship.Accel = c.Accel
	ship.MaxSpeed = c.MaxSpeed
	ship.Brakes = c.Brakes
	ship.Damping = c.Damping
	ship.Bounce = c.Bounce
	g.ship.Attach(g.player, ship)
	g.spawner.SetTarget(start)
}

// Step advances the simulation by one frame. It is a no-op unless the game
// is playing; nothing inside a frame returns an error to the caller.
func (g *Game) Step() {
	if g.state != StatePlaying {
		return
	}
	g.perfCollector.StartTick()
	now := g.Elapsed()

	g.perfCollector.StartPhase(telemetry.PhaseLevels)
	g.updateLevels(now)
	g.due = g.sched.PopDue(now, g.due[:0])
	for _, ev := range g.due {
		g.commands.Push(ev.Req)
	}

	g.perfCollector.StartPhase(telemetry.PhaseSpawn)
	g.commands.Drain(g.spawn)

	g.perfCollector.StartPhase(telemetry.PhaseShip)
	g.ship.Update(g.player, g.input)
	if pos := g.arena.Position(g.player); pos != nil {
		g.spawner.SetTarget(*pos)
	}

	g.perfCollector.StartPhase(telemetry.PhaseWeapons)
	if n := g.weapons.Update(g.player); n > 0 {
		g.collector.RecordShots(n)
		g.audio.Play(audio.Fired)
	}

	g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	g.behavior.Update(g.behaviorContext())

	g.perfCollector.StartPhase(telemetry.PhaseKinematics)
	g.escaped = g.kinematics.Update(g.escaped[:0])
	for _, e := range g.escaped {
		g.arena.Kill(e)
	}

	g.perfCollector.StartPhase(telemetry.PhaseTweens)
	g.tweens.Update()

	g.perfCollector.StartPhase(telemetry.PhaseCollision)
	g.resolveCombat()
	pairs := g.resolver.Stats()
	g.collector.RecordCollisions(pairs.BroadPairs, pairs.NarrowPairs)
	g.resolver.ResetStats()

	g.perfCollector.StartPhase(telemetry.PhaseReap)
	playerDown := !g.arena.Alive(g.player)
	g.arena.Reap()
	g.tick++
	if playerDown {
		g.gameOver()
	} else {
		g.checkUpgrade()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	counts := g.arena.CountGroups()
	g.collector.RecordFrame(counts[components.GroupEnemyShip])
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// behaviorContext refreshes the per-frame view of the player.
func (g *Game) behaviorContext() *systems.Context {
	g.ctx.PlayerAlive = g.arena.Alive(g.player)
	if pos := g.arena.Position(g.player); pos != nil {
		g.ctx.PlayerPos = *pos
	}
	if ship := g.ship.Ship(g.player); ship != nil {
		g.ctx.PlayerTrail = ship.Trail()
	}
	return &g.ctx
}

// spawn instantiates one queued request. Placement failures are expected
// under crowding and only logged at debug level.
func (g *Game) spawn(req systems.SpawnRequest) {
	_, err := g.spawner.Spawn(req)
	switch {
	case err == nil:
		g.collector.RecordSpawn(true)
	case errors.Is(err, systems.ErrPlacement):
		g.collector.RecordSpawn(false)
		slog.Debug("spawn skipped", "kind", req.Kind.String(), "error", err)
	default:
		slog.Warn("spawn failed", "kind", req.Kind.String(), "error", err)
	}
}

func (g *Game) updateLevels(now time.Duration) {
	tr, ok := g.levels.Update(now)
	if !ok {
		return
	}
	switch tr.Phase {
	case systems.PhaseActive:
		g.recordEvent(telemetry.EventLevelStart, tr.Name)
	case systems.PhasePause:
		g.recordEvent(telemetry.EventLevelEnd, tr.Name)
	case systems.PhaseComplete:
		g.state = StateComplete
		g.recordEvent(telemetry.EventComplete, "")
	}
}

func (g *Game) gameOver() {
	if g.state == StateGameOver {
		return
	}
	g.state = StateGameOver
	g.commands.Reset()
	g.recordEvent(telemetry.EventGameOver, "")
}

// Close flushes and closes telemetry output.
func (g *Game) Close() error {
	return g.outputManager.Close()
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() int32 {
	return g.tick
}

// Elapsed returns the simulated time.
func (g *Game) Elapsed() time.Duration {
	return time.Duration(g.tick) * g.cfg.Derived.Tick
}

// State returns the run state.
func (g *Game) State() State {
	return g.state
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// NextUpgrade returns the score of the next upgrade threshold.
func (g *Game) NextUpgrade() int {
	return g.nextUpgrade
}

// Seed returns the RNG seed of the run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Player returns the player ship handle.
func (g *Game) Player() ecs.Entity {
	return g.player
}

// Arena returns the entity arena.
func (g *Game) Arena() *systems.Arena {
	return g.arena
}

// Weapons returns the player's weapons controller.
func (g *Game) Weapons() *systems.WeaponsController {
	return g.weapons
}

// Registry returns the step phase metadata.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// PerfStats returns the rolling per-phase timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records render frame timing for the perf window.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// SetInput replaces the input provider.
func (g *Game) SetInput(in systems.InputState) {
	if in == nil {
		in = systems.NoInput{}
	}
	g.input = in
}

// SetAudio replaces the audio sink.
func (g *Game) SetAudio(s audio.Sink) {
	if s == nil {
		s = audio.Discard{}
	}
	g.audio = s
}
