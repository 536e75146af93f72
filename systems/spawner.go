package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/config"
)

type maskKey struct {
	kind components.Kind
	w, h int
}

// Spawner builds configured entities from spawn requests.
// It creates entities in the world and must not be called while a query is open.
type Spawner struct {
	arena  *Arena
	cfg    *config.Config
	rng    *rand.Rand
	tweens *TweenSystem
	bounds Bounds
	fps    float64

	masks  map[maskKey]*components.Mask
	target components.Position

	placeBuf []Collider
}

// NewSpawner creates a spawner. rng drives every random placement and velocity.
func NewSpawner(cfg *config.Config, a *Arena, tw *TweenSystem, rng *rand.Rand) *Spawner {
	return &Spawner{
		arena:  a,
		cfg:    cfg,
		rng:    rng,
		tweens: tw,
		bounds: Bounds{Width: cfg.Derived.Width, Height: cfg.Derived.Height, Top: cfg.Derived.Top},
		fps:    cfg.Derived.FPS,
		masks:  make(map[maskKey]*components.Mask),
	}
}

// SetTarget sets the position targeted bullets aim at.
func (s *Spawner) SetTarget(pos components.Position) {
	s.target = pos
}

func (s *Spawner) mask(kind components.Kind, w, h int, build func(w, h int) *components.Mask) *components.Mask {
	key := maskKey{kind: kind, w: w, h: h}
	if m, ok := s.masks[key]; ok {
		return m
	}
	m := build(w, h)
	s.masks[key] = m
	return m
}

// randY returns a uniform integer row in [margin, height-margin].
func (s *Spawner) randY(margin int) float64 {
	lo := margin
	hi := int(s.bounds.Height) - margin
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + s.rng.Intn(hi-lo+1))
}

func (s *Spawner) ticks(seconds float64) int {
	return int(math.Round(seconds * s.fps))
}

func (s *Spawner) enemyHealth(hp int) components.Health {
	return components.Health{Current: hp, Max: hp, FlashTime: s.cfg.Enemies.FlashTicks}
}

// Spawn creates the entity described by req. Kinds that create several
// entities return the first one.
func (s *Spawner) Spawn(req SpawnRequest) (ecs.Entity, error) {
	switch req.Kind {
	case SpawnSwarm:
		return s.spawnSwarmer(req), nil
	case SpawnAsteroid:
		return s.spawnAsteroid(req)
	case SpawnFireball:
		return s.spawnFireball(req), nil
	case SpawnSlashBullet:
		return s.spawnSlashBullet(req), nil
	case SpawnSineShip:
		return s.spawnSineShips(req), nil
	case SpawnChaser:
		return s.spawnChaser(req), nil
	case SpawnOrbitBoss:
		return s.spawnOrbitBoss(req), nil
	case SpawnSimpleBullet:
		return s.spawnSimpleBullet(req), nil
	case SpawnRoundBullet:
		return s.spawnRoundBullet(req), nil
	case SpawnRadialBurst:
		return s.spawnRadialBurst(req), nil
	case SpawnMissile:
		return s.spawnMissile(req), nil
	case SpawnGem:
		return s.spawnGem(req), nil
	case SpawnExplosion:
		return s.spawnExplosion(req), nil
	}
	return noEntity, fmt.Errorf("%w: %v", ErrUnknownSpawn, req.Kind)
}

func (s *Spawner) spawnSwarmer(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.Swarmer
	x, y := s.bounds.Width+c.SpawnOffsetX, float64(s.rng.Intn(int(s.bounds.Height)+1))
	if req.Placed {
		x, y = req.X, req.Y
	}
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Health: s.enemyHealth(c.Health),
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:       s.mask(components.KindSwarmer, c.Size, c.Size, components.MaskEllipse),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:      components.Tag{Group: components.GroupEnemyShip, Kind: components.KindSwarmer},
		Stats:    components.Stats{Score: c.Score, Size: 1, CollisionDamage: c.CollisionDamage},
		Behavior: &Swarmer{Speed: c.Speed},
	})
}

// asteroidDef builds an asteroid of the given tier centered on (x, y).
func (s *Spawner) asteroidDef(x, y, vx, vy float64, size int) EntityDef {
	c := s.cfg.Enemies.Asteroid
	d := c.PixelSize * size
	return EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: vx, Y: vy},
		Health: s.enemyHealth(size),
		Body: components.Body{
			W: d, H: d,
			Mask:       s.mask(components.KindAsteroid, d, d, components.MaskEllipse),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag: components.Tag{Group: components.GroupEnemyShip, Kind: components.KindAsteroid},
		Stats: components.Stats{
			Score:           c.ScorePerTier * (c.Tier + 1 - size),
			Size:            size,
			CollisionDamage: c.DamagePerTier * size,
		},
	}
}

// spawnAsteroid places a full-size asteroid at the right edge, retrying at
// random heights until its rectangle is clear of every enemy ship.
// Placed requests are fragments and skip the placement check.
func (s *Spawner) spawnAsteroid(req SpawnRequest) (ecs.Entity, error) {
	c := s.cfg.Enemies.Asteroid
	if req.Placed {
		size := req.Size
		if size < 1 {
			size = 1
		}
		return s.arena.Spawn(s.asteroidDef(req.X, req.Y, req.VX, req.VY, size)), nil
	}

	size := c.Tier
	if req.Size > 0 {
		size = req.Size
	}
	d := c.PixelSize * size
	s.placeBuf = s.arena.Colliders(s.placeBuf[:0], components.GroupEnemyShip)
	for try := 0; try < c.Retries; try++ {
		x, y := s.bounds.Width, s.randY(c.MarginY)
		r := components.RectAt(x, y, d, d)
		if s.blocked(r) {
			continue
		}
		vx := -c.SpeedXRange*s.rng.Float64() - c.MinSpeedX
		vy := c.SpeedYRange/2 - c.SpeedYRange*s.rng.Float64()
		return s.arena.Spawn(s.asteroidDef(x, y, vx, vy, size)), nil
	}
	return noEntity, fmt.Errorf("asteroid after %d tries: %w", c.Retries, ErrPlacement)
}

func (s *Spawner) blocked(r components.Rect) bool {
	for _, c := range s.placeBuf {
		if r.Overlaps(c.Rect) {
			return true
		}
	}
	return false
}

// Fragment is a child asteroid produced by a split.
type Fragment struct {
	X, Y   float64
	VX, VY float64
	Size   int
}

// AsteroidFragments splits an asteroid of the given tier into two children of
// the next tier down, pushed apart on opposite diagonals. Tier 1 yields none.
// rnd returns uniform values in [0, 1).
func AsteroidFragments(x, y float64, size, pixelSize int, rnd func() float64) []Fragment {
	newSize := size - 1
	if newSize < 1 {
		return nil
	}
	dir := -1.0
	if rnd() > 0.5 {
		dir = 1
	}
	mult := math.Sqrt(4 - float64(newSize))
	offset := float64(pixelSize*newSize) / 3

	first := Fragment{
		X: x - dir*offset, Y: y - offset,
		VX: -mult * dir * rnd(), VY: -mult * rnd(),
		Size: newSize,
	}
	second := Fragment{
		X: x + dir*offset, Y: y + offset,
		VX: mult * dir * rnd(), VY: mult * rnd(),
		Size: newSize,
	}
	return []Fragment{first, second}
}

func (s *Spawner) spawnFireball(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.FireBullet
	x, y := s.bounds.Width+float64(c.Size)/2, s.randY(c.MarginY)
	if req.Placed {
		x, y = req.X, req.Y
	}
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: c.SpeedX},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:       s.mask(components.KindFireBullet, c.Size, c.Size, components.MaskEllipse),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:   components.Tag{Group: components.GroupEnemyProjectile, Kind: components.KindFireBullet},
		Stats: components.Stats{Damage: c.Damage, CollisionDamage: c.Damage},
	})
}

func (s *Spawner) spawnSlashBullet(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.SlashBullet
	x, y := s.bounds.Width+10, s.randY(c.MarginY)
	if req.Placed {
		x, y = req.X, req.Y
	}
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: c.SpeedX},
		Acc:    components.Acceleration{X: c.AccelX},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:       s.mask(components.KindSlashBullet, c.Size, c.Size, components.MaskEllipse),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:      components.Tag{Group: components.GroupEnemyProjectile, Kind: components.KindSlashBullet},
		Stats:    components.Stats{Damage: c.Damage, CollisionDamage: c.Damage},
		Behavior: &SlashBullet{Homing: c.Homing, MaxSpeed: c.MaxSpeed},
	})
}

// spawnSineShips creates a squadron flying in line from the right edge.
// Members share a row; the n-th one starts n·spacing further right and
// fires its first shot n·delay seconds later.
func (s *Spawner) spawnSineShips(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.SineShip
	group := max(req.Group, 1)
	level := c.Level
	if req.Level > 0 {
		level = req.Level
	}
	shootTime := c.ShootTime
	if req.ShootTime > 0 {
		shootTime = req.ShootTime
	}
	y := s.randY(c.MarginY)
	if req.Placed {
		y = req.Y
	}

	first := noEntity
	for idx := 0; idx < group; idx++ {
		x := s.bounds.Width + c.GroupSpacing*float64(idx)
		if req.Placed {
			x = req.X + c.GroupSpacing*float64(idx)
		}
		e := s.arena.Spawn(EntityDef{
			Pos:    components.Position{X: x, Y: y},
			Vel:    components.Velocity{X: c.SpeedX},
			Acc:    components.Acceleration{Y: c.Accel},
			Health: s.enemyHealth(c.Health),
			Body: components.Body{
				W: c.Width, H: c.Height,
				Mask:       s.mask(components.KindSineShip, c.Width, c.Height, components.MaskTriangle),
				Fragile:    true,
				KillOffset: c.KillOffset * float64(group),
			},
			Tag:   components.Tag{Group: components.GroupEnemyShip, Kind: components.KindSineShip},
			Stats: components.Stats{Score: c.Score, Size: 1, CollisionDamage: c.CollisionDamage},
			Behavior: NewSineShip(
				c.SwitchTicks,
				s.ticks(shootTime),
				s.ticks(c.FirstShotDelay*float64(idx)),
				level,
			),
		})
		if idx == 0 {
			first = e
		}
	}
	return first
}

func (s *Spawner) spawnChaser(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.Chaser
	x, y := s.bounds.Width+float64(c.Size)/2, s.randY(c.Size)
	if req.Placed {
		x, y = req.X, req.Y
	}
	trigger := s.ticks(c.ChaseEvery)
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: c.SpeedX},
		Health: s.enemyHealth(c.Health),
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:       s.mask(components.KindChaser, c.Size, c.Size, components.MaskTriangle),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset * 4,
		},
		Tag:   components.Tag{Group: components.GroupEnemyShip, Kind: components.KindChaser},
		Stats: components.Stats{Score: c.Score, Size: 2, CollisionDamage: c.CollisionDamage},
		Behavior: &Chaser{
			Trigger:      trigger,
			Counter:      trigger,
			Inertia:      c.Inertia,
			ChaseSeconds: c.ChaseTime,
		},
	})
}

// spawnOrbitBoss creates the boss just off screen and eases it onto its orbit.
func (s *Spawner) spawnOrbitBoss(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.OrbitBoss
	b := &OrbitBoss{
		AnchorX:     c.AnchorX * s.bounds.Width,
		AnchorY:     c.AnchorY * s.bounds.Height,
		RadiusX:     c.RadiusX,
		RadiusY:     c.RadiusY,
		Omega:       c.AngularSpeed * math.Pi / 180,
		Entry:       s.ticks(c.EntrySeconds),
		FireTicks:   s.ticks(c.FireSeconds),
		BurstCount:  c.BurstCount,
		BulletSpeed: c.BulletSpeed,
	}
	b.FireTimer = b.FireTicks

	x, y := s.bounds.Width+float64(c.Width)/2, b.AnchorY
	if req.Placed {
		x, y = req.X, req.Y
	}
	e := s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Health: s.enemyHealth(c.Health),
		Body: components.Body{
			W: c.Width, H: c.Height,
			Mask:   s.mask(components.KindOrbitBoss, c.Width, c.Height, components.MaskEllipse),
			Pinned: true,
		},
		Tag:      components.Tag{Group: components.GroupEnemyShip, Kind: components.KindOrbitBoss},
		Stats:    components.Stats{Score: c.Score, Size: 4, CollisionDamage: c.CollisionDamage},
		Behavior: b,
	})
	ox, oy := b.OrbitPoint(0)
	s.tweens.AddAbsoluteMove(e, ox, oy, c.EntrySeconds)
	return e
}

func (s *Spawner) bullet(kind components.Kind, x, y, vx, vy float64, w, h int, build func(w, h int) *components.Mask) ecs.Entity {
	c := s.cfg.Enemies.Bullet
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: vx, Y: vy},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: w, H: h,
			Mask:       s.mask(kind, w, h, build),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:   components.Tag{Group: components.GroupEnemyProjectile, Kind: kind},
		Stats: components.Stats{Damage: c.Damage, CollisionDamage: c.Damage},
	})
}

func (s *Spawner) spawnSimpleBullet(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.Bullet
	vx := c.SimpleSpeed
	if req.VX != 0 || req.VY != 0 {
		vx = req.VX
	}
	return s.bullet(components.KindSimpleBullet, req.X, req.Y, vx, req.VY, c.Width, c.Height, components.MaskRect)
}

// spawnRoundBullet fires a bullet from the request position at the current target.
func (s *Spawner) spawnRoundBullet(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.Bullet
	v, ok := homeTo(r2.Vec{X: req.X, Y: req.Y}, r2.Vec{X: s.target.X, Y: s.target.Y}, c.TargetedSpeed)
	if !ok {
		v = r2.Vec{X: -c.TargetedSpeed}
	}
	return s.bullet(components.KindRoundBullet, req.X, req.Y, v.X, v.Y, c.RoundSize, c.RoundSize, components.MaskEllipse)
}

// spawnRadialBurst fires Count round bullets at evenly spaced angles.
func (s *Spawner) spawnRadialBurst(req SpawnRequest) ecs.Entity {
	c := s.cfg.Enemies.Bullet
	n := max(req.Count, 1)
	speed := req.Speed
	if speed == 0 {
		speed = c.TargetedSpeed
	}
	// n+1 points over the closed interval; the last one repeats the first
	angles := floats.Span(make([]float64, n+1), 0, 2*math.Pi)[:n]

	first := noEntity
	for i, a := range angles {
		e := s.bullet(components.KindRoundBullet, req.X, req.Y,
			speed*math.Cos(a), speed*math.Sin(a),
			c.RoundSize, c.RoundSize, components.MaskEllipse)
		if i == 0 {
			first = e
		}
	}
	return first
}

func (s *Spawner) spawnMissile(req SpawnRequest) ecs.Entity {
	c := s.cfg.Weapons.Wingman
	w, h := s.cfg.Weapons.ShotWidth, s.cfg.Weapons.ShotHeight
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: req.X, Y: req.Y},
		Vel:    components.Velocity{X: c.MissileSpeed},
		Acc:    components.Acceleration{X: c.MissileAccel},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: w, H: h,
			Mask:       s.mask(components.KindMissile, w, h, components.MaskRect),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:   components.Tag{Group: components.GroupPlayerShot, Kind: components.KindMissile},
		Stats: components.Stats{Damage: c.MissileDamage},
	})
}

// GemLevel clamps a gem level into the configured value table.
func GemLevel(level, levels int) int {
	return max(1, min(level, levels))
}

func (s *Spawner) spawnGem(req SpawnRequest) ecs.Entity {
	c := s.cfg.Gems
	level := GemLevel(req.Size, len(c.Values))
	value := 0
	if len(c.Values) > 0 {
		value = c.Values[level-1]
	}
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: req.X, Y: req.Y},
		Vel:    components.Velocity{X: c.DriftSpeed},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:       s.mask(components.KindGem, c.Size, c.Size, components.MaskEllipse),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:   components.Tag{Group: components.GroupGem, Kind: components.KindGem},
		Stats: components.Stats{Size: level, Value: value},
		Behavior: &Gem{
			Level:        level,
			PickupRadius: c.PickupRadius,
			HomingSpeed:  c.HomingSpeed,
		},
	})
}

func (s *Spawner) spawnExplosion(req SpawnRequest) ecs.Entity {
	c := s.cfg.Effects
	size := c.ExplosionSize
	if req.Size > 0 {
		size = c.ExplosionSize * req.Size
	}
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: req.X, Y: req.Y},
		Health: components.Health{Current: 1, Max: 1},
		Body:   components.Body{W: size, H: size, Pinned: true},
		Tag:    components.Tag{Group: components.GroupEffect, Kind: components.KindExplosion},
		Stats:  components.Stats{Size: max(req.Size, 1)},
		Behavior: &Explosion{
			Frames:     c.ExplosionFrames,
			FrameTicks: c.ExplosionFrameTicks,
		},
	})
}

// SpawnPlayer creates the player ship entity at its configured start.
// The ship is pinned: ShipSystem moves it.
func (s *Spawner) SpawnPlayer() ecs.Entity {
	c := s.cfg.Player
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: c.StartX, Y: c.StartY},
		Health: components.Health{Current: c.Health, Max: c.Health, FlashTime: s.cfg.Enemies.FlashTicks},
		Body: components.Body{
			W: c.Width, H: c.Height,
			Mask: s.mask(components.KindPlayer, c.Width, c.Height, func(w, h int) *components.Mask {
				return components.MaskMirror(components.MaskTriangle(w, h))
			}),
			Pinned: true,
		},
		Tag:   components.Tag{Group: components.GroupPlayer, Kind: components.KindPlayer},
		Stats: components.Stats{Size: 1, CollisionDamage: c.CollisionDamage},
	})
}

// SpawnShot creates a player projectile.
func (s *Spawner) SpawnShot(x, y, vx, vy float64, damage int) ecs.Entity {
	w, h := s.cfg.Weapons.ShotWidth, s.cfg.Weapons.ShotHeight
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Vel:    components.Velocity{X: vx, Y: vy},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: w, H: h,
			Mask:       s.mask(components.KindShot, w, h, components.MaskRect),
			Fragile:    true,
			KillOffset: s.cfg.Enemies.KillOffset,
		},
		Tag:   components.Tag{Group: components.GroupPlayerShot, Kind: components.KindShot},
		Stats: components.Stats{Damage: damage},
	})
}

// SpawnWingman creates an escort holding (dx, dy) from the ship's trailing position.
func (s *Spawner) SpawnWingman(dx, dy float64) ecs.Entity {
	c := s.cfg.Weapons.Wingman
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: s.target.X + dx, Y: s.target.Y + dy},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: c.Width, H: c.Height,
			Mask: s.mask(components.KindWingman, c.Width, c.Height, func(w, h int) *components.Mask {
				return components.MaskMirror(components.MaskTriangle(w, h))
			}),
			Pinned: true,
		},
		Tag: components.Tag{Group: components.GroupWingman, Kind: components.KindWingman},
		Behavior: &Wingman{
			OffsetX:       dx,
			OffsetY:       dy,
			FireTicks:     c.FireTicks,
			Cooldown:      c.FireTicks,
			MissileOffset: c.MissileOffset,
		},
	})
}

// SpawnRotatingShield creates an orbiting shield starting at angle degrees.
func (s *Spawner) SpawnRotatingShield(angle float64) ecs.Entity {
	c := s.cfg.Weapons.RotatingShield
	return s.arena.Spawn(EntityDef{
		Pos:    s.target,
		Health: components.Health{Current: c.Health, Max: c.Health, FlashTime: s.cfg.Enemies.FlashTicks},
		Body: components.Body{
			W: c.Size, H: c.Size,
			Mask:   s.mask(components.KindRotatingShield, c.Size, c.Size, components.MaskEllipse),
			Pinned: true,
		},
		Tag:   components.Tag{Group: components.GroupRotatingShield, Kind: components.KindRotatingShield},
		Stats: components.Stats{Damage: c.Damage},
		Behavior: &RotatingShield{
			Angle:         angle,
			MaxRadius:     c.MaxRadius,
			RadiusSpeed:   c.RadiusSpeed,
			RotationSpeed: c.RotationSpeed,
		},
	})
}

// SpawnDeflector creates the deflector shield in front of the ship.
func (s *Spawner) SpawnDeflector() ecs.Entity {
	c := s.cfg.Weapons.Deflector
	return s.arena.Spawn(EntityDef{
		Pos:    components.Position{X: s.target.X + c.OffsetX, Y: s.target.Y},
		Health: components.Health{Current: 1, Max: 1},
		Body: components.Body{
			W: c.Width, H: c.Height,
			Mask:   s.mask(components.KindDeflector, c.Width, c.Height, components.MaskEllipse),
			Pinned: true,
		},
		Tag:      components.Tag{Group: components.GroupDeflector, Kind: components.KindDeflector},
		Stats:    components.Stats{Damage: c.Damage},
		Behavior: &Deflector{OffsetX: c.OffsetX},
	})
}
