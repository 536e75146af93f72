package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
)

// KinematicsSystem integrates motion and hit-flash counters.
type KinematicsSystem struct {
	filter ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Health,
		components.Body,
	]
	arena  *Arena
	bounds Bounds
}

// NewKinematicsSystem creates a kinematics system over the arena's world.
func NewKinematicsSystem(a *Arena, bounds Bounds) *KinematicsSystem {
	return &KinematicsSystem{
		filter: *ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Health,
			components.Body,
		](a.World()),
		arena:  a,
		bounds: bounds,
	}
}

// Update advances velocity by acceleration and position by velocity for every
// unpinned entity, ticks hit flashes, and appends fragile entities that left
// the playfield by more than their kill offset to dst.
func (s *KinematicsSystem) Update(dst []ecs.Entity) []ecs.Entity {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc, health, body := query.Get()
		e := query.Entity()
		if !s.arena.Alive(e) {
			continue
		}

		if !body.Pinned {
			Integrate(pos, vel, acc)
		}
		if health.Flash > 0 {
			health.Flash--
		}

		if body.Fragile && OutOfBounds(body.Rect(*pos), body.KillOffset, s.bounds) {
			dst = append(dst, e)
		}
	}
	return dst
}

// Integrate applies one frame of acceleration and velocity.
func Integrate(pos *components.Position, vel *components.Velocity, acc *components.Acceleration) {
	vel.X += acc.X
	vel.Y += acc.Y
	pos.X += vel.X
	pos.Y += vel.Y
}

// OutOfBounds reports whether r lies entirely beyond the playfield by more than offset.
func OutOfBounds(r components.Rect, offset float64, b Bounds) bool {
	off := int(math.Round(offset))
	return r.Bottom() < -off ||
		r.Top() > int(b.Height)+off ||
		r.Right() < -off ||
		r.Left() > int(b.Width)+off
}

// Deflect exchanges momentum between the ship and an object of the given size
// tier. Smaller objects are deflected more. The ship's contribution is capped
// per axis at speedCap.
func Deflect(ship, obj *components.Velocity, size int, speedCap float64) {
	if size < 1 {
		size = 1
	}
	factor := 1 / math.Sqrt(float64(size))
	sx := math.Min(speedCap, ship.X)
	sy := math.Min(speedCap, ship.Y)
	ox, oy := obj.X, obj.Y
	obj.X, ship.X = factor*sx, ox/factor
	obj.Y, ship.Y = factor*sy, oy/factor
}

// ResolveShipCollision applies a ship-object impact: each side takes the
// other's collision damage and the velocities are exchanged with Deflect.
// Returns whether the object was destroyed.
func (a *Arena) ResolveShipCollision(ship, obj ecs.Entity, speedCap float64) bool {
	if !a.Alive(ship) || !a.Alive(obj) {
		return false
	}
	shipStats := a.statsMap.Get(ship)
	objStats := a.statsMap.Get(obj)

	a.ApplyDamage(ship, objStats.CollisionDamage)
	destroyed := a.ApplyDamage(obj, shipStats.CollisionDamage)

	Deflect(a.velMap.Get(ship), a.velMap.Get(obj), objStats.Size, speedCap)
	return destroyed
}
