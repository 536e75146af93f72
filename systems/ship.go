package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
)

// Control is a logical input the ship reacts to.
type Control uint8

const (
	ControlUp Control = iota
	ControlDown
	ControlLeft
	ControlRight
)

func (c Control) String() string {
	switch c {
	case ControlUp:
		return "up"
	case ControlDown:
		return "down"
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	}
	return "unknown"
}

// InputState reports which controls are held this frame.
type InputState interface {
	Held(c Control) bool
}

// NoInput is an InputState with nothing held.
type NoInput struct{}

func (NoInput) Held(Control) bool { return false }

// ShipSystem moves the player ship from input and keeps it on the playfield.
type ShipSystem struct {
	arena   *Arena
	shipMap *ecs.Map[components.Ship]
	bounds  Bounds
}

// NewShipSystem creates a ship system.
func NewShipSystem(a *Arena, bounds Bounds) *ShipSystem {
	return &ShipSystem{
		arena:   a,
		shipMap: ecs.NewMap[components.Ship](a.World()),
		bounds:  bounds,
	}
}

// Attach adds ship state to an entity. Must not be called while a query is open.
func (s *ShipSystem) Attach(e ecs.Entity, ship components.Ship) {
	s.shipMap.Add(e, &ship)
}

// Ship returns the ship state of e, or nil.
func (s *ShipSystem) Ship(e ecs.Entity) *components.Ship {
	if !s.arena.exists(e) || !s.shipMap.Has(e) {
		return nil
	}
	return s.shipMap.Get(e)
}

// Update applies one frame of input, health bookkeeping, motion and border
// bounce, then records the position in the ship history.
func (s *ShipSystem) Update(e ecs.Entity, input InputState) {
	if !s.arena.Alive(e) || !s.shipMap.Has(e) {
		return
	}
	if input == nil {
		input = NoInput{}
	}
	ship := s.shipMap.Get(e)
	pos := s.arena.posMap.Get(e)
	vel := s.arena.velMap.Get(e)
	health := s.arena.healthMap.Get(e)
	body := s.arena.bodyMap.Get(e)

	s.thrust(ship, vel, input)

	health.Max = ship.MaxHealth
	health.Clamp()
	ship.StepHealthBar(health.Current)

	ship.ClampSpeed(vel)
	pos.X += vel.X
	pos.Y += vel.Y

	s.bounce(ship, pos, vel, body)

	ship.PushHistory(*pos)
}

func (s *ShipSystem) thrust(ship *components.Ship, vel *components.Velocity, input InputState) {
	idle := true
	if input.Held(ControlLeft) {
		idle = false
		vel.X = ship.Thrust(vel.X, -1)
	}
	if input.Held(ControlRight) {
		idle = false
		vel.X = ship.Thrust(vel.X, 1)
	}
	if input.Held(ControlUp) {
		idle = false
		vel.Y = ship.Thrust(vel.Y, -1)
	}
	if input.Held(ControlDown) {
		idle = false
		vel.Y = ship.Thrust(vel.Y, 1)
	}
	if idle {
		vel.X *= ship.Damping
		vel.Y *= ship.Damping
	}
}

func (s *ShipSystem) bounce(ship *components.Ship, pos *components.Position, vel *components.Velocity, body *components.Body) {
	r := body.Rect(*pos)
	halfW := float64(body.W) / 2
	halfH := float64(body.H) / 2
	if r.Right() >= int(s.bounds.Width) {
		pos.X = s.bounds.Width - halfW
		vel.X *= ship.Bounce
	}
	if r.Left() < 0 {
		pos.X = halfW
		vel.X *= ship.Bounce
	}
	if r.Bottom() >= int(s.bounds.Height) {
		pos.Y = s.bounds.Height - halfH
		vel.Y *= ship.Bounce
	}
	if r.Top() < int(s.bounds.Top) {
		pos.Y = s.bounds.Top + halfH
		vel.Y *= ship.Bounce
	}
}
