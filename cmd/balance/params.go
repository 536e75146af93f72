package main

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/starfall/config"
)

// ParamSpec defines a single tunable difficulty parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of difficulty parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Player
			{Name: "player_health", Path: "player.health", Min: 50, Max: 250, Default: 100},
			// Enemies
			{Name: "swarmer_speed", Path: "enemies.swarmer.speed", Min: 1, Max: 6, Default: 3},
			{Name: "swarmer_health", Path: "enemies.swarmer.health", Min: 1, Max: 10, Default: 1},
			{Name: "chaser_health", Path: "enemies.chaser.health", Min: 2, Max: 30, Default: 8},
			{Name: "sine_ship_health", Path: "enemies.sine_ship.health", Min: 1, Max: 20, Default: 2},
			{Name: "boss_health", Path: "enemies.orbit_boss.health", Min: 100, Max: 1500, Default: 300},
			// Enemy fire
			{Name: "bullet_speed", Path: "enemies.bullet.targeted_speed", Min: 2, Max: 10, Default: 4},
			{Name: "bullet_damage", Path: "enemies.bullet.damage", Min: 2, Max: 30, Default: 10},
			// Rewards
			{Name: "gem_drop_chance", Path: "gems.drop_chance", Min: 0, Max: 0.8, Default: 0.3},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Format renders values as name=value pairs for the evaluation log.
func (pv *ParamVector) Format(values []float64) string {
	parts := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		parts[i] = fmt.Sprintf("%s=%.4g", spec.Name, values[i])
	}
	return strings.Join(parts, " ")
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	round := func(v float64) int { return int(v + 0.5) }

	cfg.Player.Health = round(c[0])
	cfg.Enemies.Swarmer.Speed = c[1]
	cfg.Enemies.Swarmer.Health = round(c[2])
	cfg.Enemies.Chaser.Health = round(c[3])
	cfg.Enemies.SineShip.Health = round(c[4])
	cfg.Enemies.OrbitBoss.Health = round(c[5])
	cfg.Enemies.Bullet.TargetedSpeed = c[6]
	cfg.Enemies.Bullet.Damage = round(c[7])
	cfg.Gems.DropChance = c[8]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Player.Health),
		cfg.Enemies.Swarmer.Speed,
		float64(cfg.Enemies.Swarmer.Health),
		float64(cfg.Enemies.Chaser.Health),
		float64(cfg.Enemies.SineShip.Health),
		float64(cfg.Enemies.OrbitBoss.Health),
		cfg.Enemies.Bullet.TargetedSpeed,
		float64(cfg.Enemies.Bullet.Damage),
		cfg.Gems.DropChance,
	}
}
