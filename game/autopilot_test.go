package game

import (
	"testing"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/systems"
)

func TestAutopilotDodges(t *testing.T) {
	tests := []struct {
		name    string
		dy      float64
		want    systems.Control
		notWant systems.Control
	}{
		{"threat below", 20, systems.ControlUp, systems.ControlDown},
		{"threat above", -20, systems.ControlDown, systems.ControlUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, Options{Seed: 1})
			pos := g.arena.Position(g.player)
			pos.Y = 400
			spawnEnemy(g, pos.X+200, pos.Y+tt.dy, 5, 1)

			ap := NewAutopilot(g)
			if !ap.Held(tt.want) || ap.Held(tt.notWant) {
				t.Errorf("Held(%v) = %v, Held(%v) = %v", tt.want, ap.Held(tt.want), tt.notWant, ap.Held(tt.notWant))
			}
		})
	}
}

func TestAutopilotReturnsHome(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	pos := g.arena.Position(g.player)
	pos.X, pos.Y = 10, g.cfg.Derived.Height-50

	ap := NewAutopilot(g)
	if !ap.Held(systems.ControlRight) || !ap.Held(systems.ControlUp) {
		t.Error("autopilot did not head for its home point")
	}
	if ap.Held(systems.ControlLeft) || ap.Held(systems.ControlDown) {
		t.Error("autopilot steered away from its home point")
	}
}

func TestAutopilotIgnoresThreatsBehind(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	pos := g.arena.Position(g.player)
	pos.X, pos.Y = g.cfg.Derived.Width/4, (g.cfg.Derived.Top+g.cfg.Derived.Height)/2
	spawnEnemy(g, pos.X-200, pos.Y, 5, 1)

	ap := NewAutopilot(g)
	for _, c := range []systems.Control{systems.ControlUp, systems.ControlDown, systems.ControlLeft, systems.ControlRight} {
		if ap.Held(c) {
			t.Errorf("Held(%v) with only a threat behind and the ship at home", c)
		}
	}
	if n := g.arena.CountGroups()[components.GroupEnemyShip]; n != 1 {
		t.Fatalf("enemy ships = %d, want 1", n)
	}
}
