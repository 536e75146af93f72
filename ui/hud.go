package ui

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/game"
	"github.com/pthm-cable/starfall/systems"
)

// HUD renders the status bar along the top of the screen.
type HUD struct {
	renderer *Renderer
	width    int32
	height   int32
}

// NewHUD creates a status bar width pixels wide and height pixels tall.
func NewHUD(width, height int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    width,
		height:   height,
	}
}

// Draw renders score, health, level and deflector charges.
func (h *HUD) Draw(snap *game.Snapshot) {
	r := h.renderer
	rl.DrawRectangle(0, 0, h.width, h.height, r.Theme.StatusBarBg)
	rl.DrawLine(0, h.height-1, h.width, h.height-1, r.Theme.PanelBorder)

	y := (h.height - 20) / 2

	rl.DrawText(fmt.Sprintf("Score %d / %d", snap.Score, snap.NextUpgrade), 12, y, 20, rl.White)

	// The bar tracks the displayed health so damage drains smoothly
	barX, barW := int32(260), int32(220)
	ratio := float32(0)
	if snap.MaxHealth > 0 {
		ratio = clamp01(float32(snap.HealthBar) / float32(snap.MaxHealth))
	}
	rl.DrawRectangle(barX, y+2, barW, 16, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*ratio), 16, r.RatioColor(ratio))
	rl.DrawRectangleLines(barX, y+2, barW, 16, r.Theme.PanelBorder)
	rl.DrawText(fmt.Sprintf("%d/%d", snap.Health, snap.MaxHealth), barX+barW+8, y+2, 16, r.Theme.ValueColor)

	for i := 0; i < snap.DeflectorLevel; i++ {
		color := r.Theme.BarBg
		if i < snap.DeflectorCharge {
			color = rl.Color{R: 140, G: 200, B: 255, A: 255}
		}
		rl.DrawCircle(barX+barW+90+int32(i)*18, y+10, 6, color)
	}

	rl.DrawText(levelText(snap), h.width-340, y, 20, r.Theme.SectionHeader)
}

// DrawBanner renders a centered message for the terminal states.
func (h *HUD) DrawBanner(snap *game.Snapshot, screenHeight int32) {
	var text string
	switch snap.State {
	case game.StateGameOver:
		text = "GAME OVER"
	case game.StateComplete:
		text = "ALL LEVELS CLEARED"
	default:
		return
	}
	const size = 48
	w := rl.MeasureText(text, size)
	rl.DrawText(text, (h.width-w)/2, screenHeight/2-size, size, rl.White)

	score := fmt.Sprintf("Final score %d", snap.Score)
	sw := rl.MeasureText(score, 20)
	rl.DrawText(score, (h.width-sw)/2, screenHeight/2+10, 20, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func levelText(snap *game.Snapshot) string {
	if snap.Level == 0 {
		return "Get ready"
	}
	switch snap.Phase {
	case systems.PhasePause:
		return fmt.Sprintf("Level %d: %s", snap.Level, snap.LevelName)
	case systems.PhaseActive:
		if snap.Remaining > 0 {
			return fmt.Sprintf("Level %d  %s", snap.Level, snap.Remaining.Round(time.Second))
		}
		return fmt.Sprintf("Level %d", snap.Level)
	}
	return fmt.Sprintf("Level %d cleared", snap.Level)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	SystemTimes map[string]time.Duration
	Total       time.Duration
	FPS         float64
	Registry    *systems.SystemRegistry
}

// PerfPanel renders the step phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	names    []string
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SortedNames returns the phases of data slowest first.
func (p *PerfPanel) SortedNames(data PerfPanelData) []string {
	p.names = p.names[:0]
	for name := range data.SystemTimes {
		p.names = append(p.names, name)
	}
	slices.SortFunc(p.names, func(a, b string) int {
		if c := cmp.Compare(data.SystemTimes[b], data.SystemTimes[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return p.names
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	p.renderer.DrawPanel(x-6, y-6, 280, 230)

	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s  FPS: %.0f", data.Total.Round(time.Microsecond), data.FPS), x, y, 14, rl.Yellow)
	y += 16

	for i, name := range p.SortedNames(data) {
		if i >= 12 {
			break
		}

		avg := data.SystemTimes[name]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}

		displayName := name
		if data.Registry != nil {
			displayName = data.Registry.GetName(name)
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", displayName, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
