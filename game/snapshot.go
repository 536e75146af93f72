package game

import (
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/systems"
)

// EntityView is what a renderer needs to draw one entity.
type EntityView struct {
	Group    components.Group
	Kind     components.Kind
	X, Y     float64 // center
	W, H     int
	Flash    bool
	Health   int
	Max      int
	Progress float64 // explosion animation progress in [0, 1]
}

// Snapshot is the render-facing state of a frame.
type Snapshot struct {
	Tick    int32
	Elapsed time.Duration
	State   State

	Score        int
	NextUpgrade  int
	UpgradeLevel int

	Health    int
	MaxHealth int
	HealthBar int

	Level     int // 1-based, 0 before the first level
	LevelName string
	Phase     systems.LevelPhase
	Remaining time.Duration

	DeflectorCharge int
	DeflectorLevel  int

	Choices  []UpgradeKind
	Entities []EntityView
}

type viewFilter = ecs.Filter5[
	components.Position,
	components.Health,
	components.Body,
	components.Tag,
	systems.Controller,
]

func newViewFilter(w *ecs.World) *viewFilter {
	return ecs.NewFilter5[
		components.Position,
		components.Health,
		components.Body,
		components.Tag,
		systems.Controller,
	](w)
}

// Snapshot fills dst with the current frame, reusing its entity buffer.
// The player is always the last entity so it draws on top.
func (g *Game) Snapshot(dst *Snapshot) {
	now := g.Elapsed()
	*dst = Snapshot{
		Tick:            g.tick,
		Elapsed:         now,
		State:           g.state,
		Score:           g.score,
		NextUpgrade:     g.nextUpgrade,
		UpgradeLevel:    g.upgradeLevel,
		Level:           g.levels.Index() + 1,
		Phase:           g.levels.Phase(),
		Remaining:       g.levels.Remaining(now),
		DeflectorCharge: g.weapons.Deflector.Charge,
		DeflectorLevel:  g.weapons.Deflector.Level,
		Choices:         g.choices,
		Entities:        dst.Entities[:0],
	}
	if lvl, ok := g.levels.Current(); ok {
		dst.LevelName = lvl.Name
	}
	if h := g.arena.Health(g.player); h != nil {
		dst.Health = h.Current
		dst.MaxHealth = h.Max
	}
	if ship := g.ship.Ship(g.player); ship != nil {
		dst.HealthBar = ship.HealthBar
	}

	var player *EntityView
	var playerView EntityView
	query := g.views.Query()
	for query.Next() {
		pos, health, body, tag, ctrl := query.Get()
		v := EntityView{
			Group:  tag.Group,
			Kind:   tag.Kind,
			X:      pos.X,
			Y:      pos.Y,
			W:      body.W,
			H:      body.H,
			Flash:  health.Flashing(),
			Health: health.Current,
			Max:    health.Max,
		}
		if ex, ok := ctrl.Behavior.(*systems.Explosion); ok {
			v.Progress = ex.Progress()
		}
		if query.Entity() == g.player {
			playerView = v
			player = &playerView
			continue
		}
		dst.Entities = append(dst.Entities, v)
	}
	if player != nil {
		dst.Entities = append(dst.Entities, *player)
	}
}

// Loadout summarizes the player's ship and weapons for inspection panels.
type Loadout struct {
	Speed    float64
	MaxSpeed float64
	Accel    float64

	Projectiles int
	Bursts      int
	Cooldown    float64 // frames between volleys

	Wingmen      int
	WingmanSlots int
	Shields      int
	ShieldCap    int

	DeflectorLevel int
	DeflectorMax   int
}

// Loadout returns the current ship and weapon stats.
func (g *Game) Loadout() Loadout {
	w := g.weapons
	l := Loadout{
		Projectiles:    w.Projectiles,
		Bursts:         w.Gun.Bursts,
		Cooldown:       w.Gun.CooldownTime,
		Wingmen:        len(w.Wingmen()),
		WingmanSlots:   w.WingmanSlots(),
		Shields:        len(w.Shields()),
		ShieldCap:      w.ShieldCap(),
		DeflectorLevel: w.Deflector.Level,
		DeflectorMax:   w.Deflector.MaxLevel,
	}
	if ship := g.ship.Ship(g.player); ship != nil {
		l.MaxSpeed = ship.MaxSpeed
		l.Accel = ship.Accel
	}
	if vel := g.arena.Velocity(g.player); vel != nil {
		l.Speed = math.Hypot(vel.X, vel.Y)
	}
	return l
}
