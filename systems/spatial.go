package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"github.com/solarlune/resolv"
)

// SpaceMargin extends the broad-phase space past every playfield edge, so
// entities entering from off-screen are still found. Rectangles further out
// are never reported.
const SpaceMargin = 256

var tagTarget = resolv.NewTag("target")

// shapeEntry is the cached rectangle of one entity.
type shapeEntry struct {
	shape *resolv.ConvexPolygon
	w, h  int
}

// SpatialGrid is the broad phase: a resolv cell space holding the
// rectangles of one collider set. Items are referenced by their index in the
// caller's slice.
type SpatialGrid struct {
	space  *resolv.Space
	shapes map[ecs.Entity]*shapeEntry
	index  map[resolv.IShape]int
	placed []resolv.IShape
}

// NewSpatialGrid creates a space covering width×height plus the margin.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	cell := int(cellSize)
	return &SpatialGrid{
		space:  resolv.NewSpace(int(width)+2*SpaceMargin, int(height)+2*SpaceMargin, cell, cell),
		shapes: make(map[ecs.Entity]*shapeEntry),
		index:  make(map[resolv.IShape]int),
	}
}

// Clear removes all items from the space. Cached shapes of entities for
// which alive reports false are dropped.
func (g *SpatialGrid) Clear(alive func(ecs.Entity) bool) {
	for _, sh := range g.placed {
		g.space.Remove(sh)
	}
	g.placed = g.placed[:0]
	clear(g.index)

	if alive == nil {
		return
	}
	for e := range g.shapes {
		if !alive(e) {
			delete(g.shapes, e)
		}
	}
}

// shapeFor returns the cached shape of c moved to its current rectangle.
func (g *SpatialGrid) shapeFor(c Collider) *resolv.ConvexPolygon {
	w, h := max(c.Rect.W, 1), max(c.Rect.H, 1)
	ent, ok := g.shapes[c.E]
	if !ok || ent.w != w || ent.h != h {
		ent = &shapeEntry{
			shape: resolv.NewRectangleTopLeft(0, 0, float64(w), float64(h)),
			w:     w,
			h:     h,
		}
		g.shapes[c.E] = ent
	}
	ent.shape.SetPosition(
		float64(c.Rect.X+SpaceMargin)+float64(w)/2,
		float64(c.Rect.Y+SpaceMargin)+float64(h)/2,
	)
	return ent.shape
}

// Insert adds c to the space as item idx.
func (g *SpatialGrid) Insert(idx int, c Collider) {
	sh := g.shapeFor(c)
	sh.Tags().Set(tagTarget)
	g.space.Add(sh)
	g.placed = append(g.placed, sh)
	g.index[sh] = idx
}

// QueryInto appends the indices of inserted items whose rectangle
// intersects c to dst. Each item is reported once, in ascending index order.
func (g *SpatialGrid) QueryInto(dst []int, c Collider) []int {
	sh := g.shapeFor(c)
	if _, placed := g.index[sh]; !placed {
		g.space.Add(sh)
		defer g.space.Remove(sh)
	}

	start := len(dst)
	sh.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: sh.SelectTouchingCells(0).FilterShapes().ByTags(tagTarget),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			if set.OtherShape == sh {
				return true
			}
			if idx, ok := g.index[set.OtherShape]; ok {
				dst = append(dst, idx)
			}
			return true
		},
	})

	found := dst[start:]
	slices.Sort(found)
	found = slices.Compact(found)
	return dst[:start+len(found)]
}
