package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
)

func collider(a *Arena, e ecs.Entity) Collider {
	c, _ := a.Collider(e)
	return c
}

func TestOverlapRectWithoutPixels(t *testing.T) {
	disc := components.MaskEllipse(16, 16)
	a := Collider{Rect: components.RectAt(8, 8, 16, 16), Mask: disc}
	b := Collider{Rect: components.RectAt(22, 22, 16, 16), Mask: disc}

	if !a.Rect.Overlaps(b.Rect) {
		t.Fatal("rects should overlap in the corner")
	}
	if Overlap(a, b) {
		t.Error("Overlap reported a hit between disc corners")
	}

	b.Rect = components.RectAt(20, 8, 16, 16)
	if !Overlap(a, b) {
		t.Error("Overlap missed discs sharing a row")
	}
}

func TestGroupCollideBroadWithoutNarrow(t *testing.T) {
	a := NewArena()
	shot := a.Spawn(EntityDef{
		Pos:    components.Position{X: 8, Y: 8},
		Health: components.Health{Current: 1},
		Body:   components.Body{W: 16, H: 16, Mask: components.MaskEllipse(16, 16)},
		Tag:    components.Tag{Group: components.GroupPlayerShot},
	})
	enemy := a.Spawn(EntityDef{
		Pos:    components.Position{X: 22, Y: 22},
		Health: components.Health{Current: 1},
		Body:   components.Body{W: 16, H: 16, Mask: components.MaskEllipse(16, 16)},
		Tag:    components.Tag{Group: components.GroupEnemyShip},
	})

	r := NewArenaResolver(a, 200, 200)
	contacts := r.GroupCollide([]Collider{collider(a, shot)}, []Collider{collider(a, enemy)}, CollideOptions{KillA: true})
	if len(contacts) != 0 {
		t.Errorf("GroupCollide = %v, want no contacts", contacts)
	}
	if st := r.Stats(); st.BroadPairs != 1 || st.NarrowPairs != 0 {
		t.Errorf("Stats = %+v, want 1 broad, 0 narrow", st)
	}
	if !a.Alive(shot) {
		t.Error("shot killed without a contact")
	}
}

func TestGroupCollideOrderAndKill(t *testing.T) {
	a := NewArena()
	e1 := spawnAt(a, components.GroupEnemyShip, 100, 100, 40, 40, 5)
	e2 := spawnAt(a, components.GroupEnemyShip, 300, 100, 40, 40, 5)
	s1 := spawnAt(a, components.GroupPlayerShot, 300, 100, 10, 4, 1)
	s2 := spawnAt(a, components.GroupPlayerShot, 95, 100, 10, 4, 1)
	s3 := spawnAt(a, components.GroupPlayerShot, 105, 100, 10, 4, 1)
	s4 := spawnAt(a, components.GroupPlayerShot, 600, 100, 10, 4, 1)

	r := NewArenaResolver(a, 800, 600)
	enemies := a.Colliders(nil, components.GroupEnemyShip)
	shots := []Collider{collider(a, s1), collider(a, s2), collider(a, s3), collider(a, s4)}

	contacts := r.GroupCollide(shots, enemies, CollideOptions{KillA: true})
	if len(contacts) != 3 {
		t.Fatalf("contacts = %d, want 3", len(contacts))
	}
	wantA := []ecs.Entity{s1, s2, s3}
	wantB := []ecs.Entity{e2, e1, e1}
	for i, c := range contacts {
		if c.A != wantA[i] || len(c.Bs) != 1 || c.Bs[0] != wantB[i] {
			t.Errorf("contact %d = %v, want %v -> %v", i, c, wantA[i], wantB[i])
		}
	}
	for _, s := range wantA {
		if a.Alive(s) {
			t.Errorf("shot %v survived KillA", s)
		}
	}
	if !a.Alive(s4) || !a.Alive(e1) || !a.Alive(e2) {
		t.Error("unmatched entity killed")
	}
}

func TestGroupCollideKillBOnce(t *testing.T) {
	a := NewArena()
	gem := spawnAt(a, components.GroupGem, 100, 100, 10, 10, 1)
	p1 := spawnAt(a, components.GroupWingman, 100, 100, 20, 20, 1)
	p2 := spawnAt(a, components.GroupWingman, 102, 100, 20, 20, 1)

	r := NewArenaResolver(a, 800, 600)
	contacts := r.GroupCollide(
		[]Collider{collider(a, p1), collider(a, p2)},
		[]Collider{collider(a, gem)},
		CollideOptions{KillB: true},
	)
	if len(contacts) != 1 || contacts[0].A != p1 {
		t.Errorf("contacts = %v, want a single pickup by the first collector", contacts)
	}
	if a.Alive(gem) {
		t.Error("gem survived KillB")
	}
}

func TestSpriteCollide(t *testing.T) {
	a := NewArena()
	ship := spawnAt(a, components.GroupPlayer, 100, 100, 40, 30, 10)
	hit := spawnAt(a, components.GroupEnemyProjectile, 110, 100, 8, 8, 1)
	miss := spawnAt(a, components.GroupEnemyProjectile, 200, 100, 8, 8, 1)

	r := NewArenaResolver(a, 800, 600)
	got := r.SpriteCollide(collider(a, ship), a.Colliders(nil, components.GroupEnemyProjectile), true)
	if len(got) != 1 || got[0] != hit {
		t.Errorf("SpriteCollide = %v, want [%v]", got, hit)
	}
	if a.Alive(hit) || !a.Alive(miss) {
		t.Error("killB marked the wrong entities")
	}
}

func TestSpatialGridQuery(t *testing.T) {
	a := NewArena()
	// Spans four 64px cells
	wide := spawnAt(a, components.GroupEnemyShip, 70, 70, 40, 40, 1)
	far := spawnAt(a, components.GroupEnemyShip, 405, 405, 10, 10, 1)
	offscreen := spawnAt(a, components.GroupEnemyShip, -25, 705, 10, 10, 1)
	beyond := spawnAt(a, components.GroupEnemyShip, -400, 100, 10, 10, 1)

	g := NewSpatialGrid(512, 512, 64)
	for i, e := range []ecs.Entity{wide, far, offscreen, beyond} {
		g.Insert(i, collider(a, e))
	}

	tests := []struct {
		name string
		rect components.Rect
		want []int
	}{
		{"wide item once", components.Rect{X: 0, Y: 0, W: 200, H: 200}, []int{0}},
		{"below the playfield", components.Rect{X: -40, Y: 690, W: 20, H: 20}, []int{2}},
		{"past the margin", components.Rect{X: -410, Y: 90, W: 20, H: 20}, nil},
		{"empty area", components.Rect{X: 250, Y: 250, W: 20, H: 20}, nil},
		{"everything inside", components.Rect{X: -100, Y: -100, W: 700, H: 900}, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.QueryInto(nil, Collider{Rect: tt.rect})
			if !slices.Equal(got, tt.want) {
				t.Errorf("QueryInto(%+v) = %v, want %v", tt.rect, got, tt.want)
			}
		})
	}

	g.Clear(a.Alive)
	if got := g.QueryInto(nil, Collider{Rect: components.Rect{X: 0, Y: 0, W: 200, H: 200}}); len(got) != 0 {
		t.Errorf("QueryInto after Clear = %v, want none", got)
	}
}

func TestResolverStatsNarrowWithinBroad(t *testing.T) {
	a := NewArena()
	rng := rand.New(rand.NewSource(5))
	disc := components.MaskEllipse(16, 16)
	var shots, enemies []Collider
	for i := 0; i < 60; i++ {
		group := components.GroupPlayerShot
		if i%2 == 1 {
			group = components.GroupEnemyShip
		}
		e := a.Spawn(EntityDef{
			Pos:    components.Position{X: rng.Float64() * 200, Y: rng.Float64() * 200},
			Health: components.Health{Current: 1},
			Body:   components.Body{W: 16, H: 16, Mask: disc},
			Tag:    components.Tag{Group: group},
		})
		if group == components.GroupPlayerShot {
			shots = append(shots, collider(a, e))
		} else {
			enemies = append(enemies, collider(a, e))
		}
	}

	r := NewArenaResolver(a, 200, 200)
	contacts := r.GroupCollide(enemies, shots, CollideOptions{})
	st := r.Stats()
	if st.BroadPairs == 0 {
		t.Fatal("no broad-phase pairs among 60 crowded discs")
	}
	if st.NarrowPairs > st.BroadPairs {
		t.Errorf("NarrowPairs = %d > BroadPairs = %d", st.NarrowPairs, st.BroadPairs)
	}
	var hits int
	for _, c := range contacts {
		hits += len(c.Bs)
	}
	if hits != st.NarrowPairs {
		t.Errorf("contact hits = %d, want NarrowPairs %d", hits, st.NarrowPairs)
	}

	r.ResetStats()
	if st := r.Stats(); st != (ResolverStats{}) {
		t.Errorf("Stats after reset = %+v", st)
	}
}
