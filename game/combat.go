package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/audio"
	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/systems"
	"github.com/pthm-cable/starfall/telemetry"
)

// killCause selects the consequences of an enemy kill.
type killCause uint8

const (
	causeShot killCause = iota
	causeImpact
	causeShield
	causeDeflector
)

// resolveCombat runs the interaction list in its fixed order. Entities
// killed by an earlier pass are skipped by the later ones.
func (g *Game) resolveCombat() {
	g.enemies = g.arena.Colliders(g.enemies[:0], components.GroupEnemyShip)
	g.hostiles = append(g.hostiles[:0], g.enemies...)
	g.hostiles = g.arena.Colliders(g.hostiles, components.GroupEnemyProjectile)

	g.resolveShotHits()
	g.resolveShipImpacts()
	g.resolveShieldHits()
	g.resolveDeflectorHits()
	g.resolvePickups()
}

// resolveShotHits applies player shots and missiles to enemy ships. Each shot
// is consumed; the damage of every shot hitting the same enemy is summed and
// applied once.
func (g *Game) resolveShotHits() {
	g.shots = g.arena.Colliders(g.shots[:0], components.GroupPlayerShot)
	contacts := g.resolver.GroupCollide(g.enemies, g.shots, systems.CollideOptions{KillB: true})
	for _, c := range contacts {
		total := 0
		for _, shot := range c.Bs {
			if st := g.arena.Stats(shot); st != nil {
				total += st.Damage
			}
			g.collector.RecordHit()
		}
		g.hitEnemy(c.A, total, causeShot)
	}
}

// resolveShipImpacts exchanges collision damage between the ship and every
// hostile it touches.
func (g *Game) resolveShipImpacts() {
	self, ok := g.arena.Collider(g.player)
	if !ok {
		return
	}
	health := g.arena.Health(g.player)
	for _, e := range g.resolver.SpriteCollide(self, g.hostiles, false) {
		before := health.Current
		destroyed := g.arena.ResolveShipCollision(g.player, e, g.cfg.Player.SpeedCap)
		if lost := before - health.Current; lost > 0 {
			g.collector.RecordDamage(lost)
			g.audio.Play(audio.Hit)
		}
		if destroyed {
			g.enemyDestroyed(e, causeImpact)
		}
	}
}

// resolveShieldHits lets each rotating shield trade health with the enemy
// ships it touches.
func (g *Game) resolveShieldHits() {
	for _, s := range g.weapons.Shields() {
		g.shieldHits(s)
	}
}

// shieldHits exchanges health between shield s and the enemies it overlaps.
// The exchanged amount is capped by the enemy's remaining health, so a
// shield can survive several weak enemies.
func (g *Game) shieldHits(s ecs.Entity) {
	sc, ok := g.arena.Collider(s)
	if !ok {
		return
	}
	dmg := g.arena.Stats(s).Damage
	for _, e := range g.resolver.SpriteCollide(sc, g.enemies, false) {
		if !g.arena.Alive(s) {
			return
		}
		if !g.arena.Alive(e) {
			continue
		}
		amount := min(dmg, g.arena.Health(e).Current)
		g.arena.ApplyDamage(s, amount)
		g.hitEnemy(e, amount, causeShield)
	}
}

// resolveDeflectorHits spends one deflector charge per hostile touched.
// Deflected kills award no score.
func (g *Game) resolveDeflectorHits() {
	if !g.weapons.Deflector.Active() {
		return
	}
	d, ok := g.weapons.DeflectorEntity()
	if !ok {
		return
	}
	dc, ok := g.arena.Collider(d)
	if !ok {
		return
	}
	dmg := g.arena.Stats(d).Damage
	for _, e := range g.resolver.SpriteCollide(dc, g.hostiles, false) {
		if !g.weapons.Deflector.Active() {
			break
		}
		g.weapons.DeflectorHit()
		g.hitEnemy(e, dmg, causeDeflector)
	}
}

// resolvePickups collects every gem touching the ship.
func (g *Game) resolvePickups() {
	self, ok := g.arena.Collider(g.player)
	if !ok {
		return
	}
	g.gems = g.arena.Colliders(g.gems[:0], components.GroupGem)
	for _, e := range g.resolver.SpriteCollide(self, g.gems, true) {
		value := 0
		if st := g.arena.Stats(e); st != nil {
			value = st.Value
		}
		g.score += value
		g.collector.RecordPickup(value)
		g.audio.Play(audio.Pickup)
	}
}

// hitEnemy applies amount to e and runs the kill cascade if it was destroyed.
func (g *Game) hitEnemy(e ecs.Entity, amount int, cause killCause) {
	if g.damage.ApplyDamage(e, amount) {
		g.enemyDestroyed(e, cause)
	}
}

// enemyDestroyed runs the consequences of a kill: an explosion and the boss
// level end, then unless deflected, score, asteroid fragments and a possible
// gem drop. New entities are queued and appear next frame.
func (g *Game) enemyDestroyed(e ecs.Entity, cause killCause) {
	pos := g.arena.Position(e)
	tag := g.arena.Tag(e)
	st := g.arena.Stats(e)
	if pos == nil || tag == nil || st == nil {
		return
	}

	g.commands.Push(systems.SpawnRequest{Kind: systems.SpawnExplosion, X: pos.X, Y: pos.Y, Placed: true, Size: st.Size})
	g.audio.Play(audio.Explosion)

	// A boss level only ends through this signal, whatever the cause.
	if tag.Kind == components.KindOrbitBoss {
		g.levels.BossDefeated()
		g.recordEvent(telemetry.EventBossDefeated, tag.Kind.String())
	}
	if cause == causeDeflector {
		return
	}

	g.score += st.Score
	g.collector.RecordKill(tag.Kind, st.Score)

	if tag.Kind == components.KindAsteroid && cause == causeShot {
		g.splitAsteroid(pos.X, pos.Y, st.Size)
	}

	if tag.Group == components.GroupEnemyShip && g.rng.Float64() < g.cfg.Gems.DropChance {
		g.commands.Push(systems.SpawnRequest{Kind: systems.SpawnGem, X: pos.X, Y: pos.Y, Placed: true, Size: st.Size})
	}
}

func (g *Game) splitAsteroid(x, y float64, size int) {
	for _, f := range systems.AsteroidFragments(x, y, size, g.cfg.Enemies.Asteroid.PixelSize, g.rng.Float64) {
		g.commands.Push(systems.SpawnRequest{
			Kind:   systems.SpawnAsteroid,
			Placed: true,
			X:      f.X,
			Y:      f.Y,
			VX:     f.VX,
			VY:     f.VY,
			Size:   f.Size,
		})
	}
}
