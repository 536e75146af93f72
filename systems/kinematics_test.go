package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/starfall/components"
)

func TestKinematicsIntegrate(t *testing.T) {
	a := NewArena()
	k := NewKinematicsSystem(a, Bounds{Width: 800, Height: 600})

	moving := a.Spawn(EntityDef{
		Pos:    components.Position{X: 100, Y: 100},
		Vel:    components.Velocity{X: 2, Y: -1},
		Acc:    components.Acceleration{X: 0.5},
		Health: components.Health{Current: 1, Flash: 2},
		Body:   components.Body{W: 10, H: 10},
	})
	pinned := a.Spawn(EntityDef{
		Pos:    components.Position{X: 50, Y: 50},
		Vel:    components.Velocity{X: 9, Y: 9},
		Health: components.Health{Current: 1, Flash: 1},
		Body:   components.Body{W: 10, H: 10, Pinned: true},
	})

	k.Update(nil)
	if p := a.Position(moving); p.X != 102.5 || p.Y != 99 {
		t.Errorf("moving position = %+v, want (102.5, 99)", *p)
	}
	if p := a.Position(pinned); p.X != 50 || p.Y != 50 {
		t.Errorf("pinned entity moved to %+v", *p)
	}
	if f := a.Health(pinned).Flash; f != 0 {
		t.Errorf("pinned flash = %d, want 0", f)
	}
	if f := a.Health(moving).Flash; f != 1 {
		t.Errorf("moving flash = %d, want 1", f)
	}
}

func TestKinematicsKillOffset(t *testing.T) {
	a := NewArena()
	k := NewKinematicsSystem(a, Bounds{Width: 800, Height: 600})

	fragile := a.Spawn(EntityDef{
		Pos:    components.Position{X: -35, Y: 300},
		Vel:    components.Velocity{X: -5},
		Health: components.Health{Current: 1},
		Body:   components.Body{W: 20, H: 20, Fragile: true, KillOffset: 30},
	})
	a.Spawn(EntityDef{
		Pos:    components.Position{X: -400, Y: 300},
		Health: components.Health{Current: 1},
		Body:   components.Body{W: 20, H: 20},
	})

	if out := k.Update(nil); len(out) != 0 {
		t.Fatalf("frame 1 reported %v", out)
	}
	// Center -45 puts the right edge at -35, past the offset
	out := k.Update(nil)
	if len(out) != 1 || out[0] != fragile {
		t.Errorf("frame 2 reported %v, want the fragile entity", out)
	}
}

func TestOutOfBounds(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}
	tests := []struct {
		name string
		r    components.Rect
		want bool
	}{
		{"inside", components.Rect{X: 10, Y: 10, W: 10, H: 10}, false},
		{"within left margin", components.Rect{X: -60, Y: 10, W: 20, H: 10}, false},
		{"past left margin", components.Rect{X: -80, Y: 10, W: 20, H: 10}, true},
		{"past right margin", components.Rect{X: 851, Y: 10, W: 20, H: 10}, true},
		{"past bottom margin", components.Rect{X: 10, Y: 651, W: 20, H: 10}, true},
		{"past top margin", components.Rect{X: 10, Y: -80, W: 20, H: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutOfBounds(tt.r, 50, b); got != tt.want {
				t.Errorf("OutOfBounds(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestDeflect(t *testing.T) {
	tests := []struct {
		name             string
		ship, obj        components.Velocity
		size             int
		wantShip, wantOb components.Velocity
	}{
		{
			name:     "tier 1 swaps",
			ship:     components.Velocity{X: 1, Y: 0.5},
			obj:      components.Velocity{X: -3, Y: 0},
			size:     1,
			wantShip: components.Velocity{X: -3, Y: 0},
			wantOb:   components.Velocity{X: 1, Y: 0.5},
		},
		{
			name:     "ship contribution capped",
			ship:     components.Velocity{X: 8, Y: 0},
			obj:      components.Velocity{X: -1, Y: 0},
			size:     4,
			wantShip: components.Velocity{X: -2, Y: 0},
			wantOb:   components.Velocity{X: 1, Y: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ship, obj := tt.ship, tt.obj
			Deflect(&ship, &obj, tt.size, 2)
			if math.Abs(ship.X-tt.wantShip.X) > 1e-9 || math.Abs(ship.Y-tt.wantShip.Y) > 1e-9 {
				t.Errorf("ship = %+v, want %+v", ship, tt.wantShip)
			}
			if math.Abs(obj.X-tt.wantOb.X) > 1e-9 || math.Abs(obj.Y-tt.wantOb.Y) > 1e-9 {
				t.Errorf("obj = %+v, want %+v", obj, tt.wantOb)
			}
		})
	}
}

func TestResolveShipCollision(t *testing.T) {
	a := NewArena()
	ship := a.Spawn(EntityDef{
		Health: components.Health{Current: 100, Max: 100},
		Body:   components.Body{W: 10, H: 10},
		Stats:  components.Stats{Size: 1, CollisionDamage: 2},
	})
	rock := a.Spawn(EntityDef{
		Health: components.Health{Current: 2, Max: 2},
		Body:   components.Body{W: 10, H: 10},
		Stats:  components.Stats{Size: 2, CollisionDamage: 20},
	})

	if !a.ResolveShipCollision(ship, rock, 2) {
		t.Error("rock survived 2 damage with 2 health")
	}
	if h := a.Health(ship).Current; h != 80 {
		t.Errorf("ship health = %d, want 80", h)
	}
	if a.ResolveShipCollision(ship, rock, 2) {
		t.Error("collision with a doomed rock resolved again")
	}
}
