package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/game"
)

// choiceKeys select the offered upgrades by position.
var choiceKeys = [...]int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive}

// UpgradePicker renders the upgrade choices while the game waits for one.
type UpgradePicker struct {
	renderer *Renderer
	screenW  int32
	screenH  int32
}

// NewUpgradePicker creates a picker centered on a screenW x screenH window.
func NewUpgradePicker(screenW, screenH int32) *UpgradePicker {
	return &UpgradePicker{
		renderer: NewRenderer(),
		screenW:  screenW,
		screenH:  screenH,
	}
}

// Draw renders one button per choice and returns the picked upgrade, if any.
// Choices can also be picked with the number keys.
func (p *UpgradePicker) Draw(snap *game.Snapshot) (game.UpgradeKind, bool) {
	if snap.State != game.StateUpgrade || len(snap.Choices) == 0 {
		return 0, false
	}

	const (
		buttonW = 360
		buttonH = 40
		gap     = 12
	)
	pad := p.renderer.Theme.Padding
	panelW := int32(buttonW) + 2*pad
	panelH := int32(len(snap.Choices))*(buttonH+gap) + 40 + 2*pad
	x := (p.screenW - panelW) / 2
	y := (p.screenH - panelH) / 2

	p.renderer.DrawPanel(x, y, panelW, panelH)
	rl.DrawText(fmt.Sprintf("Upgrade %d", snap.UpgradeLevel-1), x+pad, y+pad, 20, rl.White)

	picked := -1
	by := float32(y + pad + 36)
	for i, kind := range snap.Choices {
		label := fmt.Sprintf("%d. %s", i+1, kind.Label())
		bounds := rl.Rectangle{X: float32(x + pad), Y: by, Width: buttonW, Height: buttonH}
		if gui.Button(bounds, label) {
			picked = i
		}
		if i < len(choiceKeys) && rl.IsKeyPressed(choiceKeys[i]) {
			picked = i
		}
		by += buttonH + gap
	}

	if picked < 0 {
		return 0, false
	}
	return snap.Choices[picked], true
}
