// Package tui plays the game in a terminal. The playfield is scaled onto the
// character grid below a one-line status bar.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/game"
)

// glyph is how one kind is drawn on the grid.
type glyph struct {
	r     rune
	style tcell.Style
}

var kindGlyphs = [components.KindCount]glyph{
	components.KindPlayer:         {'>', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)},
	components.KindShot:           {'-', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	components.KindMissile:        {'=', tcell.StyleDefault.Foreground(tcell.ColorOrange)},
	components.KindWingman:        {'}', tcell.StyleDefault.Foreground(tcell.ColorLightCyan)},
	components.KindRotatingShield: {'o', tcell.StyleDefault.Foreground(tcell.ColorSpringGreen)},
	components.KindDeflector:      {')', tcell.StyleDefault.Foreground(tcell.ColorLightBlue)},
	components.KindSwarmer:        {'<', tcell.StyleDefault.Foreground(tcell.ColorRed)},
	components.KindAsteroid:       {'#', tcell.StyleDefault.Foreground(tcell.ColorTan)},
	components.KindChaser:         {'«', tcell.StyleDefault.Foreground(tcell.ColorOrange)},
	components.KindSineShip:       {'~', tcell.StyleDefault.Foreground(tcell.ColorPurple)},
	components.KindOrbitBoss:      {'@', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
	components.KindSimpleBullet:   {'·', tcell.StyleDefault.Foreground(tcell.ColorLightCoral)},
	components.KindRoundBullet:    {'•', tcell.StyleDefault.Foreground(tcell.ColorPink)},
	components.KindSlashBullet:    {'/', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)},
	components.KindFireBullet:     {'*', tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)},
	components.KindGem:            {'◆', tcell.StyleDefault.Foreground(tcell.ColorLime)},
	components.KindExplosion:      {'✶', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
}

// View draws snapshots onto a tcell screen.
type View struct {
	screen tcell.Screen
	// Playfield size in game units
	fieldW, fieldH, fieldTop float64
}

// NewView creates a view of a fieldW x fieldH playfield whose status bar
// ends at fieldTop.
func NewView(screen tcell.Screen, fieldW, fieldH, fieldTop float64) *View {
	return &View{screen: screen, fieldW: fieldW, fieldH: fieldH, fieldTop: fieldTop}
}

// Cell maps a playfield point to a grid cell. ok is false off the grid.
func (v *View) Cell(x, y float64) (col, row int, ok bool) {
	w, h := v.screen.Size()
	rows := h - 1
	if w <= 0 || rows <= 0 {
		return 0, 0, false
	}
	col = int(x / v.fieldW * float64(w))
	row = 1 + int((y-v.fieldTop)/(v.fieldH-v.fieldTop)*float64(rows))
	if col < 0 || col >= w || row < 1 || row > rows {
		return 0, 0, false
	}
	return col, row, true
}

// Draw renders snap and shows the frame.
func (v *View) Draw(snap *game.Snapshot) {
	v.screen.Clear()

	for i := range snap.Entities {
		e := &snap.Entities[i]
		col, row, ok := v.Cell(e.X, e.Y)
		if !ok {
			continue
		}
		g := glyph{'?', tcell.StyleDefault}
		if int(e.Kind) < len(kindGlyphs) {
			g = kindGlyphs[e.Kind]
		}
		style := g.style
		if e.Flash {
			style = style.Reverse(true)
		}
		v.screen.SetContent(col, row, g.r, nil, style)
	}

	v.drawStatus(snap)
	switch snap.State {
	case game.StateUpgrade:
		v.drawChoices(snap)
	case game.StateGameOver:
		v.drawCentered(fmt.Sprintf("GAME OVER  score %d  (q to quit)", snap.Score))
	case game.StateComplete:
		v.drawCentered(fmt.Sprintf("ALL LEVELS CLEARED  score %d  (q to quit)", snap.Score))
	}

	v.screen.Show()
}

func (v *View) drawStatus(snap *game.Snapshot) {
	status := fmt.Sprintf(" Score %d/%d  HP %d/%d  Level %d %s",
		snap.Score, snap.NextUpgrade, snap.Health, snap.MaxHealth, snap.Level, snap.LevelName)
	if snap.DeflectorLevel > 0 {
		status += fmt.Sprintf("  Deflector %d/%d", snap.DeflectorCharge, snap.DeflectorLevel)
	}
	style := tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	w, _ := v.screen.Size()
	v.drawText(0, 0, padRight(status, w), style)
}

func (v *View) drawChoices(snap *game.Snapshot) {
	_, h := v.screen.Size()
	row := h/2 - len(snap.Choices)/2 - 1
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	v.drawText(4, row, "Choose an upgrade:", style.Bold(true))
	for i, kind := range snap.Choices {
		v.drawText(6, row+1+i, fmt.Sprintf("%d. %s", i+1, kind.Label()), style)
	}
}

func (v *View) drawCentered(text string) {
	w, h := v.screen.Size()
	col := (w - len([]rune(text))) / 2
	v.drawText(max(col, 0), h/2, text, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
}

func (v *View) drawText(col, row int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func padRight(s string, w int) string {
	n := len([]rune(s))
	if n >= w {
		return s
	}
	b := make([]rune, 0, w)
	b = append(b, []rune(s)...)
	for ; n < w; n++ {
		b = append(b, ' ')
	}
	return string(b)
}
