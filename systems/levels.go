package systems

import (
	"fmt"
	"time"

	"github.com/pthm-cable/starfall/config"
)

// LevelEnemy is one spawn series inside a level.
type LevelEnemy struct {
	Kind     SpawnKind
	Interval time.Duration
	Repeat   int
	Params   SpawnRequest
}

// Level is a timed block of spawn series. A zero Duration marks a boss
// level that only ends through BossDefeated.
type Level struct {
	Name     string
	Duration time.Duration
	EndPause time.Duration
	Enemies  []LevelEnemy
}

// Boss reports whether the level waits for a boss kill instead of a timer.
func (l *Level) Boss() bool {
	return l.Duration <= 0
}

// LevelsFromConfig converts the configured level table.
func LevelsFromConfig(cfg config.LevelsConfig) ([]Level, error) {
	levels := make([]Level, 0, len(cfg.List))
	for i, lc := range cfg.List {
		lvl := Level{Name: lc.Name, Duration: lc.Duration, EndPause: lc.EndPause}
		for j, sc := range lc.Spawns {
			kind, err := ParseSpawnKind(sc.Event)
			if err != nil {
				return nil, fmt.Errorf("level %d (%s) spawn %d: %w", i, lc.Name, j, err)
			}
			lvl.Enemies = append(lvl.Enemies, LevelEnemy{
				Kind:     kind,
				Interval: sc.Every,
				Repeat:   sc.Repeat,
				Params: SpawnRequest{
					Kind:      kind,
					Group:     sc.Group,
					Level:     sc.Level,
					ShootTime: sc.ShootTime,
				},
			})
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

// LevelPhase is the state of the level controller.
type LevelPhase uint8

const (
	PhasePause LevelPhase = iota
	PhaseActive
	PhaseComplete
)

func (p LevelPhase) String() string {
	switch p {
	case PhasePause:
		return "pause"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// LevelTransition describes a phase change reported by Update.
type LevelTransition struct {
	Phase LevelPhase
	Index int
	Name  string
	At    time.Duration
}

// LevelController walks the level list strictly in order:
// pause, level, pause, next level, ... until the list is exhausted.
type LevelController struct {
	levels   []Level
	sched    *Scheduler
	phase    LevelPhase
	index    int
	deadline time.Duration
	bossDown bool
}

// NewLevelController starts in a pause of startPause before the first level.
func NewLevelController(levels []Level, sched *Scheduler, startPause time.Duration) *LevelController {
	return &LevelController{
		levels:   levels,
		sched:    sched,
		phase:    PhasePause,
		index:    -1,
		deadline: startPause,
	}
}

// Update advances the state machine to time now and reports a transition if one happened.
func (c *LevelController) Update(now time.Duration) (LevelTransition, bool) {
	switch c.phase {
	case PhasePause:
		if now < c.deadline {
			return LevelTransition{}, false
		}
		return c.activateNext(now), true

	case PhaseActive:
		lvl := &c.levels[c.index]
		ended := (lvl.Boss() && c.bossDown) || (!lvl.Boss() && now >= c.deadline)
		if !ended {
			return LevelTransition{}, false
		}
		c.sched.Clear()
		c.bossDown = false
		c.phase = PhasePause
		c.deadline = now + lvl.EndPause
		return LevelTransition{Phase: PhasePause, Index: c.index, Name: lvl.Name, At: now}, true
	}
	return LevelTransition{}, false
}

func (c *LevelController) activateNext(now time.Duration) LevelTransition {
	c.index++
	if c.index >= len(c.levels) {
		c.index = len(c.levels) - 1
		c.phase = PhaseComplete
		return LevelTransition{Phase: PhaseComplete, Index: c.index, At: now}
	}
	lvl := &c.levels[c.index]
	c.phase = PhaseActive
	c.deadline = now + lvl.Duration
	c.bossDown = false
	for _, le := range lvl.Enemies {
		c.sched.ScheduleSeries(now, le.Interval, le.Repeat, le.Params)
	}
	return LevelTransition{Phase: PhaseActive, Index: c.index, Name: lvl.Name, At: now}
}

// BossDefeated ends the current level if it is a boss level.
func (c *LevelController) BossDefeated() {
	if c.phase == PhaseActive && c.levels[c.index].Boss() {
		c.bossDown = true
	}
}

// Phase returns the current phase.
func (c *LevelController) Phase() LevelPhase {
	return c.phase
}

// Index returns the current level index, or -1 before the first level.
func (c *LevelController) Index() int {
	return c.index
}

// Current returns the active or last level.
func (c *LevelController) Current() (Level, bool) {
	if c.index < 0 || c.index >= len(c.levels) {
		return Level{}, false
	}
	return c.levels[c.index], true
}

// Remaining returns the time left in the current phase. Boss levels report zero.
func (c *LevelController) Remaining(now time.Duration) time.Duration {
	if c.phase == PhaseComplete {
		return 0
	}
	if c.phase == PhaseActive && c.levels[c.index].Boss() {
		return 0
	}
	if c.deadline <= now {
		return 0
	}
	return c.deadline - now
}
