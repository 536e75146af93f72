package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/systems"
)

// keyBindings maps each control to its arrow key and WASD alternative.
var keyBindings = [...][2]int32{
	systems.ControlUp:    {rl.KeyUp, rl.KeyW},
	systems.ControlDown:  {rl.KeyDown, rl.KeyS},
	systems.ControlLeft:  {rl.KeyLeft, rl.KeyA},
	systems.ControlRight: {rl.KeyRight, rl.KeyD},
}

// Keyboard reads ship controls from the raylib window.
type Keyboard struct{}

// Held implements systems.InputState.
func (Keyboard) Held(c systems.Control) bool {
	if int(c) >= len(keyBindings) {
		return false
	}
	for _, key := range keyBindings[c] {
		if rl.IsKeyDown(key) {
			return true
		}
	}
	return false
}
