package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlays with a checkbox each.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel when the controls overlay is enabled and applies
// checkbox changes to the registry.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !overlays.IsEnabled(OverlayControls) {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight + 4

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: 12, Height: 12}
			if checked := gui.CheckBox(bounds, desc.Name, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			if desc.KeyLabel != "" {
				keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
				keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
				rl.DrawText(keyText, c.x+c.width-padding-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
			}
			y += lineHeight
		}

		y += 4
	}

	return y
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
