package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/starfall/components"
)

func behaviorCtx(a *Arena, px, py float64) *Context {
	return &Context{
		PlayerPos:   components.Position{X: px, Y: py},
		PlayerTrail: components.Position{X: px, Y: py},
		PlayerAlive: true,
		Commands:    &CommandQueue{},
		FPS:         60,
		Kill:        a.Kill,
	}
}

func TestSwarmerHomes(t *testing.T) {
	a := NewArena()
	e := a.Spawn(EntityDef{
		Pos:      components.Position{X: 100, Y: 100},
		Health:   components.Health{Current: 1},
		Behavior: &Swarmer{Speed: 3},
	})
	NewBehaviorSystem(a).Update(behaviorCtx(a, 100, 400))

	v := a.Velocity(e)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-3) > 1e-9 {
		t.Errorf("swarmer velocity = %+v, want (0, 3)", *v)
	}
}

func TestSineShipFlipsAndFires(t *testing.T) {
	a := NewArena()
	b := NewSineShip(2, 3, 0, 1)
	e := a.Spawn(EntityDef{
		Pos:      components.Position{X: 500, Y: 100},
		Acc:      components.Acceleration{Y: 0.3},
		Health:   components.Health{Current: 1},
		Body:     components.Body{W: 40, H: 20},
		Behavior: b,
	})
	sys := NewBehaviorSystem(a)
	ctx := behaviorCtx(a, 0, 0)

	var accs []float64
	for i := 0; i < 6; i++ {
		sys.Update(ctx)
		accs = append(accs, a.Acceleration(e).Y)
	}
	want := []float64{0.3, -0.3, -0.3, -0.3, -0.3, 0.3}
	for i := range want {
		if accs[i] != want[i] {
			t.Errorf("frame %d acc.y = %v, want %v", i, accs[i], want[i])
		}
	}

	if ctx.Commands.Len() != 2 {
		t.Fatalf("queued %d shots in 6 frames, want 2", ctx.Commands.Len())
	}
	ctx.Commands.Drain(func(r SpawnRequest) {
		if r.Kind != SpawnSimpleBullet || r.X != 480 || !r.Placed {
			t.Errorf("shot request = %+v, want simple bullet at x 480", r)
		}
	})
}

func TestSineShipHighLevelNotImplemented(t *testing.T) {
	a := NewArena()
	b := NewSineShip(20, 1, 0, 3)
	self := &Self{
		Pos:  &components.Position{},
		Acc:  &components.Acceleration{},
		Body: &components.Body{W: 10, H: 10},
	}
	err := b.Update(behaviorCtx(a, 0, 0), self)
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("level 3 fire error = %v, want ErrNotImplemented", err)
	}

	a.Spawn(EntityDef{
		Health:   components.Health{Current: 1},
		Tag:      components.Tag{Kind: components.KindSineShip},
		Behavior: NewSineShip(20, 1, 0, 3),
	})
	sys := NewBehaviorSystem(a)
	for i := 0; i < 3; i++ {
		sys.Update(behaviorCtx(a, 0, 0))
	}
	if sys.Errors() != 3 {
		t.Errorf("Errors() = %d, want 3", sys.Errors())
	}
}

func TestGemHomingLatches(t *testing.T) {
	a := NewArena()
	g := &Gem{Level: 1, PickupRadius: 50, HomingSpeed: 10}
	e := a.Spawn(EntityDef{
		Pos:      components.Position{X: 200, Y: 100},
		Vel:      components.Velocity{X: -1},
		Health:   components.Health{Current: 1},
		Behavior: g,
	})
	sys := NewBehaviorSystem(a)

	sys.Update(behaviorCtx(a, 100, 100))
	if g.Homing {
		t.Fatal("gem homing outside the pickup radius")
	}
	if v := a.Velocity(e); v.X != -1 {
		t.Errorf("drifting gem velocity = %+v", *v)
	}

	sys.Update(behaviorCtx(a, 160, 100))
	if !g.Homing {
		t.Fatal("gem not homing inside the pickup radius")
	}
	// Player moves away again; homing persists
	sys.Update(behaviorCtx(a, 900, 100))
	if v := a.Velocity(e); math.Abs(v.X-10) > 1e-9 {
		t.Errorf("homing gem velocity = %+v, want (10, 0)", *v)
	}
}

func TestExplosionExpires(t *testing.T) {
	a := NewArena()
	ex := &Explosion{Frames: 3, FrameTicks: 2}
	e := a.Spawn(EntityDef{Health: components.Health{Current: 1}, Behavior: ex})
	sys := NewBehaviorSystem(a)
	ctx := behaviorCtx(a, 0, 0)

	for i := 0; i < 5; i++ {
		sys.Update(ctx)
	}
	if !a.Alive(e) {
		t.Fatal("explosion died early")
	}
	sys.Update(ctx)
	if a.Alive(e) {
		t.Errorf("explosion alive after %d ticks", 6)
	}
	if ex.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", ex.Progress())
	}
}

func TestRotatingShieldOrbit(t *testing.T) {
	a := NewArena()
	rs := &RotatingShield{Angle: 85, MaxRadius: 3, RadiusSpeed: 1, RotationSpeed: 5}
	e := a.Spawn(EntityDef{Health: components.Health{Current: 1}, Body: components.Body{Pinned: true}, Behavior: rs})
	sys := NewBehaviorSystem(a)

	for i := 0; i < 5; i++ {
		sys.Update(behaviorCtx(a, 100, 100))
	}
	if rs.Radius != 3 {
		t.Errorf("Radius = %v, want capped at 3", rs.Radius)
	}
	pos := a.Position(e)
	// Angle 110 degrees
	wantX := 100 + 3*math.Cos(110*math.Pi/180)
	wantY := 100 + 3*math.Sin(110*math.Pi/180)
	if math.Abs(pos.X-wantX) > 1e-9 || math.Abs(pos.Y-wantY) > 1e-9 {
		t.Errorf("shield at %+v, want (%v, %v)", *pos, wantX, wantY)
	}
}

func TestOrbitBossWaitsForEntry(t *testing.T) {
	a := NewArena()
	boss := &OrbitBoss{
		AnchorX: 500, AnchorY: 300, RadiusX: 100, RadiusY: 50,
		Omega: math.Pi / 2, Entry: 2, FireTicks: 1, BurstCount: 6, BulletSpeed: 2,
	}
	e := a.Spawn(EntityDef{
		Pos:      components.Position{X: 1000, Y: 300},
		Health:   components.Health{Current: 1},
		Body:     components.Body{Pinned: true},
		Behavior: boss,
	})
	sys := NewBehaviorSystem(a)
	ctx := behaviorCtx(a, 0, 0)

	sys.Update(ctx)
	sys.Update(ctx)
	if pos := a.Position(e); pos.X != 1000 {
		t.Fatalf("boss moved during entry: %+v", *pos)
	}
	sys.Update(ctx)
	pos := a.Position(e)
	if math.Abs(pos.X-500) > 1e-9 || math.Abs(pos.Y-350) > 1e-9 {
		t.Errorf("boss at %+v, want (500, 350)", *pos)
	}
	if ctx.Commands.Len() != 1 {
		t.Errorf("queued %d bursts, want 1", ctx.Commands.Len())
	}
}

func TestChaserRetargets(t *testing.T) {
	a := NewArena()
	b := &Chaser{Trigger: 3, Counter: 1, Inertia: 2, ChaseSeconds: 1}
	e := a.Spawn(EntityDef{
		Pos:      components.Position{X: 100, Y: 100},
		Health:   components.Health{Current: 1},
		Behavior: b,
	})
	tw := NewTweenSystem(a, 60)
	ctx := behaviorCtx(a, 100, 400)
	ctx.Tweens = tw
	sys := NewBehaviorSystem(a)

	sys.Update(ctx)
	if tw.Len() != 1 {
		t.Fatalf("tweens after first frame = %d, want 1", tw.Len())
	}
	if got := tw.tweens[0]; got.Kind != AbsoluteMove || got.Target != e || got.X != 100 || got.Y != 400 {
		t.Errorf("tween = %+v, want absolute move of the chaser to (100, 400)", got)
	}
	if v := a.Velocity(e); math.Abs(v.X) > 1e-9 || math.Abs(v.Y-2) > 1e-9 {
		t.Errorf("velocity = %+v, want (0, 2)", *v)
	}

	ctx.PlayerPos = components.Position{X: 300, Y: 100}
	for i := 0; i < 2; i++ {
		sys.Update(ctx)
	}
	if tw.Len() != 1 {
		t.Fatalf("tweens before the interval elapsed = %d, want 1", tw.Len())
	}

	sys.Update(ctx)
	if tw.Len() != 2 {
		t.Fatalf("tweens after the interval = %d, want 2", tw.Len())
	}
	if got := tw.tweens[1]; got.X != 300 || got.Y != 100 {
		t.Errorf("retarget goal = (%v, %v), want (300, 100)", got.X, got.Y)
	}
	if v := a.Velocity(e); math.Abs(v.X-2) > 1e-9 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("velocity = %+v, want (2, 0)", *v)
	}

	ctx.PlayerAlive = false
	for i := 0; i < 6; i++ {
		sys.Update(ctx)
	}
	if tw.Len() != 2 {
		t.Errorf("tweens with the player down = %d, want 2", tw.Len())
	}
}

func TestSlashBulletSteering(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		alive   bool
		vel     components.Velocity
		wantAcc components.Acceleration
		wantVel components.Velocity
	}{
		{"ahead of the player", 500, true, components.Velocity{X: -20, Y: 12},
			components.Acceleration{X: -0.2, Y: 0.15}, components.Velocity{X: -8, Y: 8}},
		{"passed the player", 50, true, components.Velocity{X: -3, Y: 1},
			components.Acceleration{}, components.Velocity{X: -3, Y: 1}},
		{"player down", 500, false, components.Velocity{X: -3, Y: 1},
			components.Acceleration{}, components.Velocity{X: -3, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			e := a.Spawn(EntityDef{
				Pos:      components.Position{X: tt.x, Y: 100},
				Vel:      tt.vel,
				Acc:      components.Acceleration{X: 1, Y: 1},
				Health:   components.Health{Current: 1},
				Behavior: &SlashBullet{Homing: 0.25, MaxSpeed: 8},
			})
			ctx := behaviorCtx(a, 100, 400)
			ctx.PlayerAlive = tt.alive
			NewBehaviorSystem(a).Update(ctx)

			acc := a.Acceleration(e)
			if math.Abs(acc.X-tt.wantAcc.X) > 1e-9 || math.Abs(acc.Y-tt.wantAcc.Y) > 1e-9 {
				t.Errorf("acc = %+v, want %+v", *acc, tt.wantAcc)
			}
			if v := a.Velocity(e); *v != tt.wantVel {
				t.Errorf("vel = %+v, want %+v", *v, tt.wantVel)
			}
		})
	}
}
