package ui

import (
	"fmt"

	"github.com/pthm-cable/starfall/game"
)

// InspectorData is what the loadout inspector displays.
type InspectorData struct {
	Snapshot *game.Snapshot
	Loadout  game.Loadout
}

func inspected(data any) *InspectorData {
	d, _ := data.(*InspectorData)
	return d
}

// loadoutSections describes the inspector layout.
var loadoutSections = []SectionDescriptor{
	{
		ID:    "hull",
		Title: "Hull",
		Fields: []FieldDescriptor{
			{
				ID:        "health",
				Label:     "Health",
				Widget:    WidgetRatio,
				Getter:    func(d any) float32 { return float32(inspected(d).Snapshot.Health) },
				MaxGetter: func(d any) float32 { return float32(inspected(d).Snapshot.MaxHealth) },
			},
			{
				ID:     "speed",
				Label:  "Speed",
				Widget: WidgetText,
				TextGetter: func(d any) string {
					l := inspected(d).Loadout
					return fmt.Sprintf("%.1f / %.1f", l.Speed, l.MaxSpeed)
				},
			},
			{
				ID:     "accel",
				Label:  "Thrust",
				Widget: WidgetText,
				Format: "%.2f",
				Getter: func(d any) float32 { return float32(inspected(d).Loadout.Accel) },
			},
		},
	},
	{
		ID:    "gun",
		Title: "Main gun",
		Fields: []FieldDescriptor{
			{
				ID:     "projectiles",
				Label:  "Projectiles",
				Widget: WidgetText,
				Getter: func(d any) float32 { return float32(inspected(d).Loadout.Projectiles) },
			},
			{
				ID:     "burst",
				Label:  "Burst",
				Widget: WidgetText,
				Getter: func(d any) float32 { return float32(inspected(d).Loadout.Bursts) },
			},
			{
				ID:     "cooldown",
				Label:  "Cooldown",
				Widget: WidgetText,
				Format: "%.1f frames",
				Getter: func(d any) float32 { return float32(inspected(d).Loadout.Cooldown) },
			},
		},
	},
	{
		ID:    "escort",
		Title: "Escort",
		Fields: []FieldDescriptor{
			{
				ID:     "wingmen",
				Label:  "Wingmen",
				Widget: WidgetText,
				TextGetter: func(d any) string {
					l := inspected(d).Loadout
					return fmt.Sprintf("%d (%d free)", l.Wingmen, l.WingmanSlots)
				},
			},
			{
				ID:        "shields",
				Label:     "Shields",
				Widget:    WidgetRatio,
				Getter:    func(d any) float32 { return float32(inspected(d).Loadout.Shields) },
				MaxGetter: func(d any) float32 { return float32(inspected(d).Loadout.ShieldCap) },
				Visible:   func(d any) bool { return inspected(d).Loadout.ShieldCap > 0 },
			},
			{
				ID:        "deflector",
				Label:     "Deflector",
				Widget:    WidgetRatio,
				Getter:    func(d any) float32 { return float32(inspected(d).Snapshot.DeflectorCharge) },
				MaxGetter: func(d any) float32 { return float32(inspected(d).Loadout.DeflectorLevel) },
				Visible:   func(d any) bool { return inspected(d).Loadout.DeflectorLevel > 0 },
			},
		},
	},
}

// Inspector renders the loadout panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the inspector and returns the Y below it.
func (ins *Inspector) Draw(data *InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	r.DrawPanel(ins.x, ins.y, ins.width, 260)

	x := ins.x + padding
	y := ins.y + padding
	width := ins.width - 2*padding
	for _, sd := range loadoutSections {
		y = r.DrawSection(x, y, sd, data, width)
	}
	return y + padding
}
