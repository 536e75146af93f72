package game

import (
	"log/slog"

	"github.com/pthm-cable/starfall/telemetry"
)

// recordEvent logs a run milestone and appends it to events.csv.
func (g *Game) recordEvent(typ telemetry.EventType, detail string) {
	e := telemetry.Event{
		Type:   typ,
		Tick:   g.tick,
		Level:  g.levels.Index() + 1,
		Score:  g.score,
		Detail: detail,
	}
	e.LogEvent()

	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// runState samples the scalar state written at the end of each stats window.
func (g *Game) runState() telemetry.RunState {
	rs := telemetry.RunState{
		Level:       g.levels.Index() + 1,
		Score:       g.score,
		Projectiles: g.weapons.Projectiles,
		Wingmen:     len(g.weapons.Wingmen()),
		Shields:     len(g.weapons.Shields()),
	}
	if h := g.arena.Health(g.player); h != nil {
		rs.Health = h.Current
	}
	return rs
}
