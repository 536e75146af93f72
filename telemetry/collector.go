package telemetry

import "github.com/pthm-cable/starfall/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	shotsFired        int
	hits              int
	kills             int
	killsByKind       [components.KindCount]int
	scoreGained       int
	damageTaken       int
	gemsCollected     int
	spawned           int
	placementFailures int
	upgrades          int
	broadPairs        int
	narrowPairs       int

	// Per-frame samples
	enemySamples []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		enemySamples:        make([]float64, 0, ticksPerWindow),
	}
}

// RecordShots records player projectiles fired this frame.
func (c *Collector) RecordShots(n int) {
	c.shotsFired += n
}

// RecordHit records a projectile hit on an enemy.
func (c *Collector) RecordHit() {
	c.hits++
}

// RecordKill records a destroyed enemy and the score it awarded.
func (c *Collector) RecordKill(kind components.Kind, score int) {
	c.kills++
	if int(kind) < len(c.killsByKind) {
		c.killsByKind[kind]++
	}
	c.scoreGained += score
}

// RecordPickup records a collected gem.
func (c *Collector) RecordPickup(value int) {
	c.gemsCollected++
	c.scoreGained += value
}

// RecordDamage records damage taken by the player ship.
func (c *Collector) RecordDamage(amount int) {
	c.damageTaken += amount
}

// RecordSpawn records a spawn request outcome.
func (c *Collector) RecordSpawn(placed bool) {
	if placed {
		c.spawned++
	} else {
		c.placementFailures++
	}
}

// RecordUpgrade records an applied upgrade.
func (c *Collector) RecordUpgrade() {
	c.upgrades++
}

// RecordCollisions records the rectangle and mask overlaps the resolver found.
func (c *Collector) RecordCollisions(broad, narrow int) {
	c.broadPairs += broad
	c.narrowPairs += narrow
}

// RecordFrame samples the number of live enemies.
func (c *Collector) RecordFrame(enemies int) {
	c.enemySamples = append(c.enemySamples, float64(enemies))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// RunState is the game state sampled at window end.
type RunState struct {
	Level       int
	Score       int
	Health      int
	Projectiles int
	Wingmen     int
	Shields     int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, state RunState) WindowStats {
	var accuracy float64
	if c.shotsFired > 0 {
		accuracy = float64(c.hits) / float64(c.shotsFired)
	}

	mean, std, p50, p90 := ComputeDistribution(c.enemySamples)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Level:       state.Level,
		Score:       state.Score,
		Health:      state.Health,
		Projectiles: state.Projectiles,
		Wingmen:     state.Wingmen,
		Shields:     state.Shields,

		ShotsFired:        c.shotsFired,
		Hits:              c.hits,
		Accuracy:          accuracy,
		Kills:             c.kills,
		AsteroidKills:     c.killsByKind[components.KindAsteroid],
		SwarmerKills:      c.killsByKind[components.KindSwarmer],
		ShipKills:         c.killsByKind[components.KindSineShip] + c.killsByKind[components.KindChaser],
		ScoreGained:       c.scoreGained,
		DamageTaken:       c.damageTaken,
		GemsCollected:     c.gemsCollected,
		Spawned:           c.spawned,
		PlacementFailures: c.placementFailures,
		Upgrades:          c.upgrades,
		BroadPairs:        c.broadPairs,
		NarrowPairs:       c.narrowPairs,

		EnemiesMean: mean,
		EnemiesStd:  std,
		EnemiesP50:  p50,
		EnemiesP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.shotsFired = 0
	c.hits = 0
	c.kills = 0
	c.killsByKind = [components.KindCount]int{}
	c.scoreGained = 0
	c.damageTaken = 0
	c.gemsCollected = 0
	c.spawned = 0
	c.placementFailures = 0
	c.upgrades = 0
	c.broadPairs = 0
	c.narrowPairs = 0
	c.enemySamples = c.enemySamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
