package game

import (
	"math"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/systems"
)

// Autopilot is an InputState that flies the ship for headless runs. It dodges
// the closest hostile in front of the ship and otherwise returns to a home
// point on the left third of the playfield.
type Autopilot struct {
	g *Game

	// Lookahead is how far ahead of the ship hostiles are considered.
	Lookahead float64
	// Clearance is the vertical distance below which a hostile is dodged.
	Clearance float64
	// Deadband stops steering this close to the home point.
	Deadband float64

	homeX, homeY float64
	tick         int32
	planned      bool
	held         [4]bool
	scratch      []systems.Collider
}

// NewAutopilot creates an autopilot for g. Install it with g.SetInput.
func NewAutopilot(g *Game) *Autopilot {
	return &Autopilot{
		g:         g,
		Lookahead: 300,
		Clearance: 90,
		Deadband:  12,
		homeX:     g.cfg.Derived.Width / 4,
		homeY:     (g.cfg.Derived.Top + g.cfg.Derived.Height) / 2,
	}
}

// Held implements systems.InputState. The plan is computed once per frame.
func (a *Autopilot) Held(c systems.Control) bool {
	if !a.planned || a.tick != a.g.tick {
		a.plan()
	}
	if int(c) >= len(a.held) {
		return false
	}
	return a.held[c]
}

func (a *Autopilot) plan() {
	a.tick = a.g.tick
	a.planned = true
	a.held = [4]bool{}

	pos := a.g.arena.Position(a.g.player)
	if pos == nil {
		return
	}

	if threat, ok := a.closestThreat(*pos); ok {
		if threat.Y >= pos.Y && pos.Y-a.Clearance > a.g.cfg.Derived.Top {
			a.held[systems.ControlUp] = true
		} else if pos.Y+a.Clearance < a.g.cfg.Derived.Height {
			a.held[systems.ControlDown] = true
		} else {
			a.held[systems.ControlUp] = true
		}
		// Back off while dodging
		if threat.X-pos.X < a.Lookahead/2 {
			a.held[systems.ControlLeft] = true
		}
		return
	}

	a.steer(pos.X, a.homeX, systems.ControlLeft, systems.ControlRight)
	a.steer(pos.Y, a.homeY, systems.ControlUp, systems.ControlDown)
}

func (a *Autopilot) steer(at, target float64, less, more systems.Control) {
	switch {
	case at > target+a.Deadband:
		a.held[less] = true
	case at < target-a.Deadband:
		a.held[more] = true
	}
}

// closestThreat returns the center of the nearest hostile ahead of the ship
// and within the clearance band.
func (a *Autopilot) closestThreat(pos components.Position) (components.Position, bool) {
	a.scratch = a.g.arena.Colliders(a.scratch[:0], components.GroupEnemyShip)
	a.scratch = a.g.arena.Colliders(a.scratch, components.GroupEnemyProjectile)

	best := math.Inf(1)
	var found components.Position
	for _, c := range a.scratch {
		cx := float64(c.Rect.X) + float64(c.Rect.W)/2
		cy := float64(c.Rect.Y) + float64(c.Rect.H)/2
		dx := cx - pos.X
		dy := math.Abs(cy - pos.Y)
		if dx < -float64(c.Rect.W) || dx > a.Lookahead {
			continue
		}
		if dy > a.Clearance+float64(c.Rect.H)/2 {
			continue
		}
		if d := math.Hypot(dx, dy); d < best {
			best = d
			found = components.Position{X: cx, Y: cy}
		}
	}
	return found, !math.IsInf(best, 1)
}
