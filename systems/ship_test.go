package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/config"
)

type heldKeys map[Control]bool

func (h heldKeys) Held(c Control) bool { return h[c] }

func newTestShip(a *Arena, x, y float64) (*ShipSystem, ecs.Entity) {
	sys := NewShipSystem(a, Bounds{Width: 800, Height: 600, Top: 50})
	e := a.Spawn(EntityDef{
		Pos:    components.Position{X: x, Y: y},
		Health: components.Health{Current: 100, Max: 100},
		Body:   components.Body{W: 40, H: 20, Pinned: true},
		Tag:    components.Tag{Group: components.GroupPlayer, Kind: components.KindPlayer},
	})
	ship := components.NewShip(components.Position{X: x, Y: y}, 6, 100)
	ship.Accel, ship.MaxSpeed, ship.Brakes, ship.Damping, ship.Bounce = 0.4, 5, 2, 0.98, -0.25
	sys.Attach(e, ship)
	return sys, e
}

func TestShipThrustAndDamping(t *testing.T) {
	a := NewArena()
	sys, e := newTestShip(a, 400, 300)

	sys.Update(e, heldKeys{ControlRight: true})
	if v := a.Velocity(e); math.Abs(v.X-0.4) > 1e-9 {
		t.Errorf("vx after thrust = %v, want 0.4", v.X)
	}
	sys.Update(e, heldKeys{ControlLeft: true})
	if v := a.Velocity(e); math.Abs(v.X+0.4) > 1e-9 {
		t.Errorf("vx after braking = %v, want -0.4", v.X)
	}
	sys.Update(e, nil)
	if v := a.Velocity(e); math.Abs(v.X+0.392) > 1e-9 {
		t.Errorf("vx after idle frame = %v, want -0.392", v.X)
	}
}

func TestShipSpeedClamp(t *testing.T) {
	a := NewArena()
	sys, e := newTestShip(a, 400, 300)
	for i := 0; i < 50; i++ {
		sys.Update(e, heldKeys{ControlDown: true})
		// Keep the ship away from the border
		a.Position(e).Y = 300
	}
	if v := a.Velocity(e); v.Y != 5 {
		t.Errorf("vy = %v, want clamped to 5", v.Y)
	}
}

func TestShipBounce(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		vx, vy float64
		wantX  float64
		wantY  float64
		wantVX float64
		wantVY float64
	}{
		{"right edge", 779, 300, 4, 0, 780, 300, -1, 0},
		{"left edge", 21, 300, -4, 0, 20, 300, 1, 0},
		{"status bar", 400, 61, 0, -4, 400, 60, 0, 1},
		{"bottom edge", 400, 589, 0, 4, 400, 590, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			sys, e := newTestShip(a, tt.x, tt.y)
			v := a.Velocity(e)
			v.X, v.Y = tt.vx, tt.vy
			// No damping so the ship reaches the border at full speed
			sys.Ship(e).Damping = 1

			sys.Update(e, nil)
			p := a.Position(e)
			if math.Abs(p.X-tt.wantX) > 1e-9 || math.Abs(p.Y-tt.wantY) > 1e-9 {
				t.Errorf("position = (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
			if math.Abs(v.X-tt.wantVX) > 1e-9 || math.Abs(v.Y-tt.wantVY) > 1e-9 {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", v.X, v.Y, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestShipHealthBookkeeping(t *testing.T) {
	a := NewArena()
	sys, e := newTestShip(a, 400, 300)
	h := a.Health(e)
	h.Current = 97

	sys.Update(e, nil)
	if bar := sys.Ship(e).HealthBar; bar != 99 {
		t.Errorf("HealthBar = %d, want 99", bar)
	}

	h.Current = 150
	sys.Update(e, nil)
	if h.Current != 100 {
		t.Errorf("health = %d, want clamped to 100", h.Current)
	}
}

func TestShipHistoryTrail(t *testing.T) {
	a := NewArena()
	sys, e := newTestShip(a, 400, 300)
	ship := sys.Ship(e)
	for i := 0; i < 6; i++ {
		sys.Update(e, heldKeys{ControlRight: true})
	}
	first := ship.History()[0]
	if first == (components.Position{X: 400, Y: 300}) {
		t.Error("history still holds the start position after 6 frames")
	}
	if ship.Trail() != first {
		t.Errorf("Trail() = %+v, want oldest %+v", ship.Trail(), first)
	}
}

func newTestWeapons(t *testing.T) (*WeaponsController, *Spawner, *Arena, ecs.Entity) {
	t.Helper()
	cfg := config.Default()
	a := NewArena()
	tw := NewTweenSystem(a, cfg.Derived.FPS)
	sp := NewSpawner(cfg, a, tw, nil)
	ship := sp.SpawnPlayer()
	sp.SetTarget(*a.Position(ship))
	return NewWeaponsController(cfg, a, sp, tw), sp, a, ship
}

func TestWeaponsVolley(t *testing.T) {
	w, _, a, ship := newTestWeapons(t)
	w.IncreaseProjectiles()
	w.IncreaseProjectiles()

	if got := w.Update(ship); got != 3 {
		t.Fatalf("volley = %d projectiles, want 3", got)
	}
	shots := a.Colliders(nil, components.GroupPlayerShot)
	if len(shots) != 3 {
		t.Fatalf("player shots = %d, want 3", len(shots))
	}
	if math.Abs(w.Spread-24) > 1e-9 {
		t.Errorf("Spread = %v, want 24", w.Spread)
	}
	if got := w.Update(ship); got != 0 {
		t.Errorf("second frame fired %d, want 0", got)
	}
}

func TestWeaponsWingmen(t *testing.T) {
	w, _, a, ship := newTestWeapons(t)
	if got := w.AddWingmen(ship); got != 2 {
		t.Fatalf("AddWingmen = %d, want 2", got)
	}
	w.AddWingmen(ship)
	if got := w.AddWingmen(ship); got != 0 {
		t.Errorf("AddWingmen with no slots = %d, want 0", got)
	}
	if w.WingmanSlots() != 0 || len(w.Wingmen()) != 4 {
		t.Errorf("slots = %d wingmen = %d, want 0 and 4", w.WingmanSlots(), len(w.Wingmen()))
	}

	a.Kill(w.Wingmen()[0])
	a.Reap()
	w.Update(ship)
	if len(w.Wingmen()) != 3 {
		t.Errorf("wingmen after a loss = %d, want 3", len(w.Wingmen()))
	}
}

func TestWeaponsRotatingShields(t *testing.T) {
	w, _, a, ship := newTestWeapons(t)
	w.RaiseShieldCap(2)
	w.Update(ship)
	if got := len(w.Shields()); got != 2 {
		t.Fatalf("shields = %d, want 2", got)
	}

	a.Kill(w.Shields()[0])
	a.Reap()
	respawn := int(math.Round(w.cfg.RotatingShield.RespawnSeconds * w.fps))
	for i := 0; i < respawn-1; i++ {
		w.Update(ship)
	}
	if got := len(w.Shields()); got != 1 {
		t.Fatalf("shields = %d before the respawn countdown ends, want 1", got)
	}
	w.Update(ship)
	if got := len(w.Shields()); got != 2 {
		t.Errorf("shields = %d after respawn, want 2", got)
	}
}

func TestWeaponsDeflector(t *testing.T) {
	w, _, _, ship := newTestWeapons(t)
	if _, ok := w.DeflectorEntity(); ok {
		t.Fatal("deflector exists at level 0")
	}
	w.IncreaseDeflector()
	w.Update(ship)
	if _, ok := w.DeflectorEntity(); !ok {
		t.Error("deflector not created after the first level")
	}
	if !w.Deflector.Active() {
		t.Error("deflector not charged after the first level")
	}
}
