package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfall/components"
)

// Behavior is the per-kind update strategy attached to an entity.
// Update runs once per frame before kinematics. It must not change the
// world structurally: new entities go through ctx.Commands, removals through ctx.Kill.
type Behavior interface {
	Update(ctx *Context, self *Self) error
}

// Controller is the component holding an entity's behavior. Nil means inert.
type Controller struct {
	Behavior Behavior
}

// Context is the frame state visible to behaviors.
type Context struct {
	Player      ecs.Entity
	PlayerPos   components.Position
	PlayerTrail components.Position // oldest position in the ship history
	PlayerAlive bool

	Commands *CommandQueue
	Tweens   *TweenSystem
	Rng      *rand.Rand
	FPS      float64
	Bounds   Bounds

	Kill func(ecs.Entity)
}

func (c *Context) kill(e ecs.Entity) {
	if c.Kill != nil {
		c.Kill(e)
	}
}

func (c *Context) push(req SpawnRequest) {
	if c.Commands != nil {
		c.Commands.Push(req)
	}
}

// Self bundles the components of the entity being updated.
type Self struct {
	Entity ecs.Entity
	Pos    *components.Position
	Vel    *components.Velocity
	Acc    *components.Acceleration
	Health *components.Health
	Body   *components.Body
	Tag    *components.Tag
	Stats  *components.Stats
}

func (s *Self) vec() r2.Vec {
	return r2.Vec{X: s.Pos.X, Y: s.Pos.Y}
}

// Bounds is the playfield size.
type Bounds struct {
	Width, Height float64
	Top           float64 // first row below the status bar
}

// BehaviorSystem runs every entity's behavior.
type BehaviorSystem struct {
	arena  *Arena
	filter ecs.Filter8[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Health,
		components.Body,
		components.Tag,
		components.Stats,
		Controller,
	]
	reported map[components.Kind]bool
	errors   int
}

// NewBehaviorSystem creates a behavior system over the arena's world.
func NewBehaviorSystem(a *Arena) *BehaviorSystem {
	return &BehaviorSystem{
		arena: a,
		filter: *ecs.NewFilter8[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Health,
			components.Body,
			components.Tag,
			components.Stats,
			Controller,
		](a.World()),
		reported: make(map[components.Kind]bool),
	}
}

// Update runs all behaviors. Errors are isolated to the failing entity and
// logged once per kind.
func (s *BehaviorSystem) Update(ctx *Context) {
	var self Self
	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc, health, body, tag, stats, ctrl := query.Get()
		if ctrl.Behavior == nil {
			continue
		}
		e := query.Entity()
		if !s.arena.Alive(e) {
			continue
		}
		self = Self{Entity: e, Pos: pos, Vel: vel, Acc: acc, Health: health, Body: body, Tag: tag, Stats: stats}
		if err := ctrl.Behavior.Update(ctx, &self); err != nil {
			s.report(tag.Kind, err)
		}
	}
}

// Errors returns the number of behavior errors since creation.
func (s *BehaviorSystem) Errors() int {
	return s.errors
}

func (s *BehaviorSystem) report(kind components.Kind, err error) {
	s.errors++
	if s.reported[kind] {
		return
	}
	s.reported[kind] = true
	if errors.Is(err, ErrNotImplemented) {
		slog.Warn("behavior not implemented", "kind", kind.String(), "error", err)
		return
	}
	slog.Error("behavior failed", "kind", kind.String(), "error", err)
}

// homeTo returns a velocity of magnitude speed pointing from p to target.
// ok is false when the points coincide.
func homeTo(p, target r2.Vec, speed float64) (r2.Vec, bool) {
	d := r2.Sub(target, p)
	if r2.Norm(d) == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(speed, r2.Unit(d)), true
}

func playerVec(ctx *Context) r2.Vec {
	return r2.Vec{X: ctx.PlayerPos.X, Y: ctx.PlayerPos.Y}
}

// Swarmer flies straight at the player every frame.
type Swarmer struct {
	Speed float64
}

func (b *Swarmer) Update(ctx *Context, self *Self) error {
	if !ctx.PlayerAlive {
		return nil
	}
	if v, ok := homeTo(self.vec(), playerVec(ctx), b.Speed); ok {
		self.Vel.X, self.Vel.Y = v.X, v.Y
	}
	return nil
}

// Chaser retargets the player at fixed intervals and rides an absolute-move
// tween to where the player was.
type Chaser struct {
	Trigger      int // frames between retargets
	Counter      int
	Inertia      float64
	ChaseSeconds float64
}

func (b *Chaser) Update(ctx *Context, self *Self) error {
	b.Counter--
	if b.Counter > 0 {
		return nil
	}
	b.Counter = b.Trigger
	if !ctx.PlayerAlive {
		return nil
	}
	if v, ok := homeTo(self.vec(), playerVec(ctx), b.Inertia); ok {
		self.Vel.X, self.Vel.Y = v.X, v.Y
	}
	if ctx.Tweens != nil {
		ctx.Tweens.AddAbsoluteMove(self.Entity, ctx.PlayerPos.X, ctx.PlayerPos.Y, b.ChaseSeconds)
	}
	return nil
}

// SineShip sweeps up and down by flipping its vertical acceleration and
// fires on a fixed cadence.
type SineShip struct {
	Switch     int // frames of the first half sweep; later sweeps last twice as long
	Timer      int
	ShootTicks int
	ShootTimer int
	Level      int
}

// NewSineShip returns a sine ship behavior whose first shot is delayed by delayTicks.
func NewSineShip(switchTicks, shootTicks, delayTicks, level int) *SineShip {
	return &SineShip{
		Switch:     switchTicks,
		Timer:      switchTicks,
		ShootTicks: shootTicks,
		ShootTimer: shootTicks + delayTicks,
		Level:      level,
	}
}

func (b *SineShip) Update(ctx *Context, self *Self) error {
	b.Timer--
	if b.Timer <= 0 {
		b.Timer = 2 * b.Switch
		self.Acc.Y = -self.Acc.Y
	}

	b.ShootTimer--
	if b.ShootTimer > 0 {
		return nil
	}
	b.ShootTimer = b.ShootTicks
	return b.fire(ctx, self)
}

func (b *SineShip) fire(ctx *Context, self *Self) error {
	muzzle := self.Pos.X - float64(self.Body.W)/2
	switch {
	case b.Level <= 1:
		ctx.push(SpawnRequest{Kind: SpawnSimpleBullet, X: muzzle, Y: self.Pos.Y, Placed: true})
	case b.Level == 2:
		ctx.push(SpawnRequest{Kind: SpawnRoundBullet, X: muzzle, Y: self.Pos.Y, Placed: true})
	default:
		return fmt.Errorf("sine ship fire level %d: %w", b.Level, ErrNotImplemented)
	}
	return nil
}

// OrbitBoss enters along a tween, then circles an anchor on an ellipse and
// fires radial bursts.
type OrbitBoss struct {
	AnchorX, AnchorY float64
	RadiusX, RadiusY float64
	Theta            float64 // radians
	Omega            float64 // radians per frame
	Entry            int     // frames left before orbiting starts
	FireTicks        int
	FireTimer        int
	BurstCount       int
	BulletSpeed      float64
}

// OrbitPoint returns the ellipse point at angle theta.
func (b *OrbitBoss) OrbitPoint(theta float64) (x, y float64) {
	return b.AnchorX + b.RadiusX*math.Cos(theta), b.AnchorY + b.RadiusY*math.Sin(theta)
}

func (b *OrbitBoss) Update(ctx *Context, self *Self) error {
	if b.Entry > 0 {
		b.Entry--
		return nil
	}
	b.Theta = math.Mod(b.Theta+b.Omega, 2*math.Pi)
	self.Pos.X, self.Pos.Y = b.OrbitPoint(b.Theta)

	b.FireTimer--
	if b.FireTimer <= 0 {
		b.FireTimer = b.FireTicks
		ctx.push(SpawnRequest{
			Kind:   SpawnRadialBurst,
			X:      self.Pos.X,
			Y:      self.Pos.Y,
			Placed: true,
			Count:  b.BurstCount,
			Speed:  b.BulletSpeed,
		})
	}
	return nil
}

// SlashBullet curves toward the player while it is still to the player's right.
type SlashBullet struct {
	Homing   float64
	MaxSpeed float64
}

func (b *SlashBullet) Update(ctx *Context, self *Self) error {
	if !ctx.PlayerAlive || self.Pos.X <= ctx.PlayerPos.X {
		self.Acc.X, self.Acc.Y = 0, 0
		return nil
	}
	a, ok := homeTo(self.vec(), playerVec(ctx), b.Homing)
	if !ok {
		return nil
	}
	self.Acc.X = math.Min(a.X, 0)
	self.Acc.Y = a.Y
	if self.Vel.X < -b.MaxSpeed {
		self.Vel.X = -b.MaxSpeed
	}
	self.Vel.Y = math.Max(-b.MaxSpeed, math.Min(b.MaxSpeed, self.Vel.Y))
	return nil
}

// Gem drifts until the player comes within PickupRadius, then homes on the
// player for the rest of its life.
type Gem struct {
	Level        int
	PickupRadius float64
	HomingSpeed  float64
	Homing       bool
}

func (b *Gem) Update(ctx *Context, self *Self) error {
	if !ctx.PlayerAlive {
		return nil
	}
	if !b.Homing && r2.Norm(r2.Sub(playerVec(ctx), self.vec())) <= b.PickupRadius {
		b.Homing = true
	}
	if b.Homing {
		if v, ok := homeTo(self.vec(), playerVec(ctx), b.HomingSpeed); ok {
			self.Vel.X, self.Vel.Y = v.X, v.Y
		}
	}
	return nil
}

// Wingman holds a fixed offset from the ship's trailing position and fires missiles.
type Wingman struct {
	OffsetX, OffsetY float64
	FireTicks        int
	Cooldown         int
	MissileOffset    float64
}

func (b *Wingman) Update(ctx *Context, self *Self) error {
	self.Pos.X = ctx.PlayerTrail.X + b.OffsetX
	self.Pos.Y = ctx.PlayerTrail.Y + b.OffsetY

	b.Cooldown--
	if b.Cooldown <= 0 {
		b.Cooldown = b.FireTicks
		ctx.push(SpawnRequest{Kind: SpawnMissile, X: self.Pos.X + b.MissileOffset, Y: self.Pos.Y, Placed: true})
	}
	return nil
}

// RotatingShield orbits the ship, growing its radius up to MaxRadius.
type RotatingShield struct {
	Angle         float64 // degrees
	Radius        float64
	MaxRadius     float64
	RadiusSpeed   float64
	RotationSpeed float64 // degrees per frame
}

func (b *RotatingShield) Update(ctx *Context, self *Self) error {
	if b.Radius < b.MaxRadius {
		b.Radius = math.Min(b.MaxRadius, b.Radius+b.RadiusSpeed)
	}
	b.Angle = math.Mod(b.Angle+b.RotationSpeed, 360)
	rad := b.Angle * math.Pi / 180
	self.Pos.X = ctx.PlayerPos.X + b.Radius*math.Cos(rad)
	self.Pos.Y = ctx.PlayerPos.Y + b.Radius*math.Sin(rad)
	return nil
}

// Deflector follows the ship just ahead of its center.
type Deflector struct {
	OffsetX float64
}

func (b *Deflector) Update(ctx *Context, self *Self) error {
	self.Pos.X = ctx.PlayerPos.X + b.OffsetX
	self.Pos.Y = ctx.PlayerPos.Y
	return nil
}

// Explosion is a visual effect that removes itself after its last frame.
type Explosion struct {
	Frames     int
	FrameTicks int
	Timer      int
	Frame      int
}

func (b *Explosion) Update(ctx *Context, self *Self) error {
	b.Timer++
	if b.Timer < b.FrameTicks {
		return nil
	}
	b.Timer = 0
	b.Frame++
	if b.Frame >= b.Frames {
		ctx.kill(self.Entity)
	}
	return nil
}

// Progress returns the fraction of the animation already played.
func (b *Explosion) Progress() float64 {
	if b.Frames <= 0 {
		return 1
	}
	return math.Min(1, float64(b.Frame)/float64(b.Frames))
}
