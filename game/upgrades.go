package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/starfall/audio"
	"github.com/pthm-cable/starfall/systems"
	"github.com/pthm-cable/starfall/telemetry"
)

// UpgradeKind identifies an entry of the upgrade table.
type UpgradeKind uint8

const (
	UpgradeMaxHealth UpgradeKind = iota
	UpgradeProjectile
	UpgradeWingman
	UpgradeRotatingShield
	UpgradeShield
	UpgradeFireRate
	UpgradeSpeed
	UpgradeBurst
	UpgradeSpread
	upgradeKindCount
)

var upgradeNames = [...]string{
	UpgradeMaxHealth:      "max_health",
	UpgradeProjectile:     "projectile",
	UpgradeWingman:        "wingman",
	UpgradeRotatingShield: "rotating_shield",
	UpgradeShield:         "shield",
	UpgradeFireRate:       "fire_rate",
	UpgradeSpeed:          "speed",
	UpgradeBurst:          "burst",
	UpgradeSpread:         "spread",
}

var upgradeLabels = [...]string{
	UpgradeMaxHealth:      "40% more health",
	UpgradeProjectile:     "+1 projectile",
	UpgradeWingman:        "Add wingmen",
	UpgradeRotatingShield: "+2 rotating shields",
	UpgradeShield:         "Improve power shield",
	UpgradeFireRate:       "Faster fire rate",
	UpgradeSpeed:          "More speed and acceleration",
	UpgradeBurst:          "+1 burst fire",
	UpgradeSpread:         "Less spread",
}

func (k UpgradeKind) String() string {
	if int(k) < len(upgradeNames) {
		return upgradeNames[k]
	}
	return "unknown"
}

// Label returns the player-facing description.
func (k UpgradeKind) Label() string {
	if int(k) < len(upgradeLabels) {
		return upgradeLabels[k]
	}
	return "unknown"
}

// UpgradeThreshold returns the score needed to reach the upgrade after level.
func UpgradeThreshold(level, factor int) int {
	return level * (level + 1) * factor
}

// ListAvailableUpgradeKinds returns the upgrades that can be applied now.
func (g *Game) ListAvailableUpgradeKinds() []UpgradeKind {
	kinds := make([]UpgradeKind, 0, upgradeKindCount)
	for k := UpgradeKind(0); k < upgradeKindCount; k++ {
		switch k {
		case UpgradeSpread:
			continue
		case UpgradeWingman:
			if g.weapons.WingmanSlots() == 0 {
				continue
			}
		case UpgradeShield:
			if g.weapons.Deflector.Level >= g.weapons.Deflector.MaxLevel {
				continue
			}
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// UpgradeChoices picks up to n distinct available upgrades at random.
func (g *Game) UpgradeChoices(n int) []UpgradeKind {
	kinds := g.ListAvailableUpgradeKinds()
	g.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })
	if n < len(kinds) {
		kinds = kinds[:n]
	}
	return kinds
}

// PendingChoices returns the upgrades offered while the game waits in StateUpgrade.
func (g *Game) PendingChoices() []UpgradeKind {
	return g.choices
}

// UpgradeLevel returns the number of upgrade thresholds reached, starting at 1.
func (g *Game) UpgradeLevel() int {
	return g.upgradeLevel
}

// checkUpgrade moves to StateUpgrade once the score reaches the threshold.
func (g *Game) checkUpgrade() {
	if g.state != StatePlaying || g.score < g.nextUpgrade {
		return
	}
	g.upgradeLevel++
	g.nextUpgrade = UpgradeThreshold(g.upgradeLevel, g.cfg.Upgrades.ThresholdFactor)
	g.choices = g.UpgradeChoices(g.cfg.Upgrades.Choices)
	g.audio.Play(audio.LevelUp)
	g.state = StateUpgrade

	if g.autoUpgrade && len(g.choices) > 0 {
		if err := g.ApplyUpgrade(g.choices[0]); err != nil {
			slog.Warn("auto upgrade failed", "kind", g.choices[0].String(), "error", err)
			g.Resume()
		}
	}
}

// ApplyUpgrade applies kind and resumes a game waiting for an upgrade.
// Upgrades without an implementation return ErrNotImplemented and leave the
// game waiting.
func (g *Game) ApplyUpgrade(kind UpgradeKind) error {
	switch kind {
	case UpgradeMaxHealth:
		ship := g.ship.Ship(g.player)
		health := g.arena.Health(g.player)
		if ship == nil || health == nil {
			return fmt.Errorf("max health upgrade: %w", systems.ErrDeadEntity)
		}
		gain := g.cfg.Upgrades.MaxHealthGain
		bonus := int(math.Round(gain * float64(ship.MaxHealth)))
		ship.MaxHealth = int(math.Round((1 + gain) * float64(ship.MaxHealth)))
		health.Max = ship.MaxHealth
		health.Heal(bonus)

	case UpgradeProjectile:
		g.weapons.IncreaseProjectiles()

	case UpgradeWingman:
		g.weapons.AddWingmen(g.player)

	case UpgradeRotatingShield:
		g.weapons.RaiseShieldCap(g.cfg.Weapons.RotatingShield.PerUpgrade)

	case UpgradeShield:
		g.weapons.IncreaseDeflector()

	case UpgradeFireRate:
		g.weapons.ScaleFireRate(g.cfg.Upgrades.FireRateFactor)

	case UpgradeSpeed:
		ship := g.ship.Ship(g.player)
		if ship == nil {
			return fmt.Errorf("speed upgrade: %w", systems.ErrDeadEntity)
		}
		ship.MaxSpeed *= g.cfg.Upgrades.SpeedFactor
		ship.Accel *= g.cfg.Upgrades.SpeedFactor

	case UpgradeBurst:
		g.weapons.IncreaseBurst()

	default:
		return fmt.Errorf("upgrade %s: %w", kind, systems.ErrNotImplemented)
	}

	g.collector.RecordUpgrade()
	g.recordEvent(telemetry.EventUpgrade, kind.String())
	g.Resume()
	return nil
}

// Resume returns a game waiting for an upgrade to play without applying one.
func (g *Game) Resume() {
	if g.state != StateUpgrade {
		return
	}
	g.state = StatePlaying
	g.choices = nil
}
