package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/starfall/game"
)

// App runs a game in the terminal.
type App struct {
	screen tcell.Screen
	game   *game.Game
	view   *View
	keys   *Keys
	snap   game.Snapshot

	// MaxTicks stops the run after this many frames (0 = unlimited).
	MaxTicks int32
}

// NewApp wraps an initialized screen. The game's input is replaced by the
// terminal keys.
func NewApp(screen tcell.Screen, g *game.Game, fieldW, fieldH, fieldTop float64) *App {
	a := &App{
		screen: screen,
		game:   g,
		view:   NewView(screen, fieldW, fieldH, fieldTop),
		keys:   NewKeys(),
	}
	g.SetInput(a.keys)
	return a
}

// OpenScreen creates and initializes the terminal screen.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()
	return screen, nil
}

// Run steps the game once per frame until the player quits or MaxTicks is
// reached. The screen is finalized on return.
func (a *App) Run(frame time.Duration) error {
	defer a.screen.Fini()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !a.HandleEvent(ev) {
				slog.Info("quit", "tick", a.game.Tick(), "score", a.game.Score())
				return nil
			}
		case <-ticker.C:
			a.Frame()
			if a.MaxTicks > 0 && a.game.Tick() >= a.MaxTicks {
				slog.Info("max ticks reached", "tick", a.game.Tick())
				return nil
			}
		}
	}
}

// Frame advances and redraws one frame.
func (a *App) Frame() {
	a.game.Step()
	a.game.RecordFrame()
	a.keys.Advance()
	a.game.Snapshot(&a.snap)
	a.view.Draw(&a.snap)
}

// HandleEvent applies one terminal event. Returns false when the player quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if a.keys.HandleKey(ev) {
			return true
		}
		if ev.Key() == tcell.KeyRune && a.game.State() == game.StateUpgrade {
			a.pick(int(ev.Rune() - '1'))
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) pick(i int) {
	choices := a.game.PendingChoices()
	if i < 0 || i >= len(choices) {
		return
	}
	if err := a.game.ApplyUpgrade(choices[i]); err != nil {
		slog.Error("upgrade failed", "upgrade", choices[i].String(), "error", err)
	}
}
