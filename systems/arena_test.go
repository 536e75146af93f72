package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
)

// spawnAt creates a plain w×h entity of the given group with full rectangle mask.
func spawnAt(a *Arena, group components.Group, x, y float64, w, h, health int) ecs.Entity {
	return a.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Health: components.Health{Current: health, Max: health, FlashTime: 4},
		Body:   components.Body{W: w, H: h, Mask: components.MaskRect(w, h)},
		Tag:    components.Tag{Group: group},
	})
}

func TestArenaDamageAndReap(t *testing.T) {
	a := NewArena()
	e := spawnAt(a, components.GroupEnemyShip, 50, 50, 10, 10, 5)

	if a.ApplyDamage(e, 3) {
		t.Fatal("ApplyDamage(3) destroyed a 5 hp entity")
	}
	h := a.Health(e)
	if h.Current != 2 || !h.Flashing() {
		t.Errorf("health = %d flash = %d, want 2 and flashing", h.Current, h.Flash)
	}

	if !a.ApplyDamage(e, 2) {
		t.Fatal("ApplyDamage(2) did not destroy a 2 hp entity")
	}
	if a.Alive(e) {
		t.Error("entity alive after lethal damage")
	}
	if a.ApplyDamage(e, 10) {
		t.Error("ApplyDamage on a doomed entity reported a kill")
	}
	a.Kill(e)

	tags := a.Reap()
	if len(tags) != 1 || tags[0].Group != components.GroupEnemyShip {
		t.Errorf("Reap() = %v, want one enemy ship", tags)
	}
	if got := a.Reap(); len(got) != 0 {
		t.Errorf("second Reap() = %v, want none", got)
	}
	if _, reaped := a.Totals(); reaped != 1 {
		t.Errorf("reaped = %d, want 1", reaped)
	}
	if a.Health(e) != nil {
		t.Error("Health of a removed entity is not nil")
	}
}

func TestArenaSpawnRaisesMax(t *testing.T) {
	a := NewArena()
	e := a.Spawn(EntityDef{Health: components.Health{Current: 7}})
	if h := a.Health(e); h.Max != 7 {
		t.Errorf("Max = %d, want 7", h.Max)
	}
}

func TestArenaCollidersSkipDoomed(t *testing.T) {
	a := NewArena()
	e1 := spawnAt(a, components.GroupGem, 10, 10, 4, 4, 1)
	spawnAt(a, components.GroupGem, 20, 20, 4, 4, 1)
	spawnAt(a, components.GroupEnemyShip, 30, 30, 4, 4, 1)

	a.Kill(e1)
	cols := a.Colliders(nil, components.GroupGem)
	if len(cols) != 1 {
		t.Fatalf("Colliders(gem) = %d, want 1", len(cols))
	}
	counts := a.CountGroups()
	if counts[components.GroupGem] != 1 || counts[components.GroupEnemyShip] != 1 {
		t.Errorf("CountGroups = %v", counts)
	}
}

func TestArenaZeroHandle(t *testing.T) {
	a := NewArena()
	var zero ecs.Entity
	if a.Alive(zero) {
		t.Error("zero handle reported alive")
	}
	a.Kill(zero)
	if a.Doomed() != 0 {
		t.Errorf("Doomed() = %d after killing the zero handle, want 0", a.Doomed())
	}
}
