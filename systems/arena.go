// Package systems provides ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
)

// EntityDef describes an entity to create.
type EntityDef struct {
	Pos      components.Position
	Vel      components.Velocity
	Acc      components.Acceleration
	Health   components.Health
	Body     components.Body
	Tag      components.Tag
	Stats    components.Stats
	Behavior Behavior
}

// noEntity is the zero handle, never alive.
var noEntity ecs.Entity

// Collider is a per-frame snapshot of an entity's collision shape.
type Collider struct {
	E    ecs.Entity
	Rect components.Rect
	Mask *components.Mask
}

// DamageApplier applies damage to entities. The arena implements it; tests substitute recorders.
type DamageApplier interface {
	ApplyDamage(e ecs.Entity, amount int) bool
}

// Arena owns the ECS world and the set of entities doomed this frame.
// Killing only marks an entity; the world is modified in Reap, outside of queries.
type Arena struct {
	world *ecs.World

	mapper *ecs.Map8[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Health,
		components.Body,
		components.Tag,
		components.Stats,
		Controller,
	]
	shapeFilter ecs.Filter3[components.Position, components.Body, components.Tag]

	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	accMap    *ecs.Map[components.Acceleration]
	healthMap *ecs.Map[components.Health]
	bodyMap   *ecs.Map[components.Body]
	tagMap    *ecs.Map[components.Tag]
	statsMap  *ecs.Map[components.Stats]

	doomed map[ecs.Entity]struct{}
	order  []ecs.Entity

	spawned int
	reaped  int
}

// NewArena creates an arena over a fresh world.
func NewArena() *Arena {
	world := ecs.NewWorld()
	return &Arena{
		world: world,
		mapper: ecs.NewMap8[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Health,
			components.Body,
			components.Tag,
			components.Stats,
			Controller,
		](world),
		shapeFilter: *ecs.NewFilter3[components.Position, components.Body, components.Tag](world),
		posMap:      ecs.NewMap[components.Position](world),
		velMap:      ecs.NewMap[components.Velocity](world),
		accMap:      ecs.NewMap[components.Acceleration](world),
		healthMap:   ecs.NewMap[components.Health](world),
		bodyMap:     ecs.NewMap[components.Body](world),
		tagMap:      ecs.NewMap[components.Tag](world),
		statsMap:    ecs.NewMap[components.Stats](world),
		doomed:      make(map[ecs.Entity]struct{}),
	}
}

// World returns the underlying ECS world.
func (a *Arena) World() *ecs.World {
	return a.world
}

// Spawn creates an entity from def. Must not be called while a query is open.
func (a *Arena) Spawn(def EntityDef) ecs.Entity {
	if def.Health.Max < def.Health.Current {
		def.Health.Max = def.Health.Current
	}
	ctrl := Controller{Behavior: def.Behavior}
	e := a.mapper.NewEntity(
		&def.Pos,
		&def.Vel,
		&def.Acc,
		&def.Health,
		&def.Body,
		&def.Tag,
		&def.Stats,
		&ctrl,
	)
	a.spawned++
	return e
}

// Kill marks e for removal at the end of the frame. Killing twice is a no-op.
func (a *Arena) Kill(e ecs.Entity) {
	if !a.exists(e) {
		return
	}
	if _, ok := a.doomed[e]; ok {
		return
	}
	a.doomed[e] = struct{}{}
	a.order = append(a.order, e)
}

// Alive reports whether e exists and has not been killed this frame.
func (a *Arena) Alive(e ecs.Entity) bool {
	if !a.exists(e) {
		return false
	}
	_, doomed := a.doomed[e]
	return !doomed
}

func (a *Arena) exists(e ecs.Entity) bool {
	return e != noEntity && a.world.Alive(e)
}

// Doomed returns the number of entities waiting to be reaped.
func (a *Arena) Doomed() int {
	return len(a.order)
}

// Reap removes every killed entity from the world, each exactly once,
// and returns their tags in kill order.
func (a *Arena) Reap() []components.Tag {
	if len(a.order) == 0 {
		return nil
	}
	tags := make([]components.Tag, 0, len(a.order))
	for _, e := range a.order {
		if !a.world.Alive(e) {
			continue
		}
		tags = append(tags, *a.tagMap.Get(e))
		a.world.RemoveEntity(e)
		a.reaped++
	}
	a.order = a.order[:0]
	clear(a.doomed)
	return tags
}

// ApplyDamage subtracts amount from e's health and kills it when health
// reaches zero. Returns true if the entity was destroyed by this call.
// Dead or doomed entities are ignored.
func (a *Arena) ApplyDamage(e ecs.Entity, amount int) bool {
	if !a.Alive(e) {
		return false
	}
	h := a.healthMap.Get(e)
	if h.Damage(amount) {
		a.Kill(e)
		return true
	}
	return false
}

// Colliders appends live entities of the given group to dst.
func (a *Arena) Colliders(dst []Collider, group components.Group) []Collider {
	query := a.shapeFilter.Query()
	for query.Next() {
		pos, body, tag := query.Get()
		if tag.Group != group {
			continue
		}
		e := query.Entity()
		if _, doomed := a.doomed[e]; doomed {
			continue
		}
		dst = append(dst, Collider{E: e, Rect: body.Rect(*pos), Mask: body.Mask})
	}
	return dst
}

// Collider returns the current collision shape of e.
func (a *Arena) Collider(e ecs.Entity) (Collider, bool) {
	if !a.Alive(e) {
		return Collider{}, false
	}
	pos := a.posMap.Get(e)
	body := a.bodyMap.Get(e)
	return Collider{E: e, Rect: body.Rect(*pos), Mask: body.Mask}, true
}

// CountGroups returns the number of live entities per group.
func (a *Arena) CountGroups() [components.GroupCount]int {
	var counts [components.GroupCount]int
	query := a.shapeFilter.Query()
	for query.Next() {
		_, _, tag := query.Get()
		if _, doomed := a.doomed[query.Entity()]; doomed {
			continue
		}
		counts[tag.Group]++
	}
	return counts
}

// Totals returns the number of entities ever spawned and reaped.
func (a *Arena) Totals() (spawned, reaped int) {
	return a.spawned, a.reaped
}

// Component accessors. They return nil for entities that are no longer in the world.

func (a *Arena) Position(e ecs.Entity) *components.Position {
	if !a.exists(e) {
		return nil
	}
	return a.posMap.Get(e)
}

func (a *Arena) Velocity(e ecs.Entity) *components.Velocity {
	if !a.exists(e) {
		return nil
	}
	return a.velMap.Get(e)
}

func (a *Arena) Acceleration(e ecs.Entity) *components.Acceleration {
	if !a.exists(e) {
		return nil
	}
	return a.accMap.Get(e)
}

func (a *Arena) Health(e ecs.Entity) *components.Health {
	if !a.exists(e) {
		return nil
	}
	return a.healthMap.Get(e)
}

func (a *Arena) Body(e ecs.Entity) *components.Body {
	if !a.exists(e) {
		return nil
	}
	return a.bodyMap.Get(e)
}

func (a *Arena) Tag(e ecs.Entity) *components.Tag {
	if !a.exists(e) {
		return nil
	}
	return a.tagMap.Get(e)
}

func (a *Arena) Stats(e ecs.Entity) *components.Stats {
	if !a.exists(e) {
		return nil
	}
	return a.statsMap.Get(e)
}
