package systems

import "github.com/mlange-42/ark/ecs"

// GridCellSize is the broad-phase cell size in pixels.
const GridCellSize = 128.0

// CollideOptions controls removal of matched entities.
type CollideOptions struct {
	KillA bool
	KillB bool
}

// Contact lists every b entity an a entity pixel-overlaps.
type Contact struct {
	A  ecs.Entity
	Bs []ecs.Entity
}

// ResolverStats counts work done by the resolver since the last reset.
type ResolverStats struct {
	BroadPairs  int // rectangle overlaps found
	NarrowPairs int // confirmed mask overlaps
}

// Resolver finds collisions in two passes: bounding rectangles through a
// resolv cell space, then pixel masks for the surviving pairs. It reports
// intersections only; damage and other consequences belong to the caller.
type Resolver struct {
	grid  *SpatialGrid
	alive func(ecs.Entity) bool
	kill  func(ecs.Entity)

	candidates []int
	stats      ResolverStats
}

// NewResolver creates a resolver for a width×height playfield. alive filters
// out entities killed earlier in the frame; kill implements the Kill options.
func NewResolver(width, height float64, alive func(ecs.Entity) bool, kill func(ecs.Entity)) *Resolver {
	return &Resolver{
		grid:  NewSpatialGrid(width, height, GridCellSize),
		alive: alive,
		kill:  kill,
	}
}

// NewArenaResolver creates a resolver bound to an arena's liveness and kill set.
func NewArenaResolver(a *Arena, width, height float64) *Resolver {
	return NewResolver(width, height, a.Alive, a.Kill)
}

func (r *Resolver) isAlive(e ecs.Entity) bool {
	return r.alive == nil || r.alive(e)
}

func (r *Resolver) doKill(e ecs.Entity) {
	if r.kill != nil {
		r.kill(e)
	}
}

// Stats returns the pair counters.
func (r *Resolver) Stats() ResolverStats {
	return r.stats
}

// ResetStats zeroes the pair counters.
func (r *Resolver) ResetStats() {
	r.stats = ResolverStats{}
}

// Overlap runs the two-pass test on a single pair.
func Overlap(a, b Collider) bool {
	if !a.Rect.Overlaps(b.Rect) {
		return false
	}
	return maskOverlap(a, b)
}

func maskOverlap(a, b Collider) bool {
	// Missing masks fall back to the rectangle
	if a.Mask == nil || b.Mask == nil {
		return true
	}
	return a.Mask.Overlap(b.Mask, b.Rect.X-a.Rect.X, b.Rect.Y-a.Rect.Y)
}

// GroupCollide returns, for each entity of a in order, the entities of b it overlaps.
// With KillB a matched b entity is killed immediately, so later a entities
// cannot hit it again in the same pass.
func (r *Resolver) GroupCollide(a, b []Collider, opts CollideOptions) []Contact {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	r.grid.Clear(r.alive)
	for j := range b {
		r.grid.Insert(j, b[j])
	}

	var contacts []Contact
	for i := range a {
		ca := a[i]
		if !r.isAlive(ca.E) {
			continue
		}

		r.candidates = r.grid.QueryInto(r.candidates[:0], ca)

		var hits []ecs.Entity
		for _, j := range r.candidates {
			cb := b[j]
			if cb.E == ca.E || !r.isAlive(cb.E) {
				continue
			}
			if !ca.Rect.Overlaps(cb.Rect) {
				continue
			}
			r.stats.BroadPairs++
			if !maskOverlap(ca, cb) {
				continue
			}
			r.stats.NarrowPairs++
			hits = append(hits, cb.E)
			if opts.KillB {
				r.doKill(cb.E)
			}
		}

		if len(hits) == 0 {
			continue
		}
		contacts = append(contacts, Contact{A: ca.E, Bs: hits})
		if opts.KillA {
			r.doKill(ca.E)
		}
	}
	return contacts
}

// SpriteCollide returns the entities of b that one overlaps, in b's order.
func (r *Resolver) SpriteCollide(one Collider, b []Collider, killB bool) []ecs.Entity {
	if !r.isAlive(one.E) {
		return nil
	}
	var hits []ecs.Entity
	for _, cb := range b {
		if cb.E == one.E || !r.isAlive(cb.E) {
			continue
		}
		if !one.Rect.Overlaps(cb.Rect) {
			continue
		}
		r.stats.BroadPairs++
		if !maskOverlap(one, cb) {
			continue
		}
		r.stats.NarrowPairs++
		hits = append(hits, cb.E)
		if killB {
			r.doKill(cb.E)
		}
	}
	return hits
}
