// Package telemetry provides run statistics, milestone events and CSV output.
package telemetry

import "log/slog"

// EventType identifies run milestones.
type EventType string

const (
	EventLevelStart   EventType = "level_start"
	EventLevelEnd     EventType = "level_end"
	EventBossDefeated EventType = "boss_defeated"
	EventUpgrade      EventType = "upgrade"
	EventGameOver     EventType = "game_over"
	EventComplete     EventType = "complete"
)

// Event is a milestone of a run.
type Event struct {
	Type   EventType `csv:"type"`
	Tick   int32     `csv:"tick"`
	Level  int       `csv:"level"`
	Score  int       `csv:"score"`
	Detail string    `csv:"detail"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"level", e.Level,
		"score", e.Score,
		"detail", e.Detail,
	)
}
