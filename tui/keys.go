package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfall/systems"
)

// DefaultHoldFrames is how long a key press keeps its control held.
// Terminals report presses and auto-repeats but no releases.
const DefaultHoldFrames = 6

// Keys turns terminal key events into held controls. Each press holds its
// control for HoldFrames frames; auto-repeat keeps it held.
type Keys struct {
	HoldFrames int
	held       [4]int
}

// NewKeys creates a key state with the default hold time.
func NewKeys() *Keys {
	return &Keys{HoldFrames: DefaultHoldFrames}
}

// HandleKey records a key event. Returns false if the key is not a control.
func (k *Keys) HandleKey(ev *tcell.EventKey) bool {
	c, ok := controlFor(ev)
	if !ok {
		return false
	}
	k.held[c] = k.HoldFrames
	// Opposite directions cancel
	if opp := opposite(c); k.held[opp] > 0 {
		k.held[opp] = 0
	}
	return true
}

// Advance counts down every held control by one frame.
func (k *Keys) Advance() {
	for i := range k.held {
		if k.held[i] > 0 {
			k.held[i]--
		}
	}
}

// Held implements systems.InputState.
func (k *Keys) Held(c systems.Control) bool {
	if int(c) >= len(k.held) {
		return false
	}
	return k.held[c] > 0
}

func controlFor(ev *tcell.EventKey) (systems.Control, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return systems.ControlUp, true
	case tcell.KeyDown:
		return systems.ControlDown, true
	case tcell.KeyLeft:
		return systems.ControlLeft, true
	case tcell.KeyRight:
		return systems.ControlRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return systems.ControlUp, true
		case 's', 'j':
			return systems.ControlDown, true
		case 'a', 'h':
			return systems.ControlLeft, true
		case 'd', 'l':
			return systems.ControlRight, true
		}
	}
	return 0, false
}

func opposite(c systems.Control) systems.Control {
	switch c {
	case systems.ControlUp:
		return systems.ControlDown
	case systems.ControlDown:
		return systems.ControlUp
	case systems.ControlLeft:
		return systems.ControlRight
	}
	return systems.ControlLeft
}
