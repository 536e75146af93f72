package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/audio"
	"github.com/pthm-cable/starfall/camera"
	"github.com/pthm-cable/starfall/config"
	"github.com/pthm-cable/starfall/game"
	"github.com/pthm-cable/starfall/renderer"
	"github.com/pthm-cable/starfall/tui"
	"github.com/pthm-cable/starfall/ui"
)

const controlsLegend = "Arrows/WASD: fly | 1-3: pick upgrade | Tab: overlays | I: loadout | F3: perf | M: mute"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, flown by the autopilot")
	terminal := flag.Bool("tui", false, "Play in the terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	mute := flag.Bool("mute", false, "Start with sound muted")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging). The terminal UI
	// owns stdout, so it logs to a file in the output directory instead.
	logOut := io.Writer(os.Stdout)
	if *terminal {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0o755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "starfall.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		AutoUpgrade:    *headless,
	}

	switch {
	case *headless:
		runHeadless(cfg, opts, *maxTicks, *stepsPerUpdate)
	case *terminal:
		runTerminal(cfg, opts, *maxTicks)
	default:
		runWindow(cfg, opts, *maxTicks, *stepsPerUpdate, *mute)
	}
}

// runHeadless steps the simulation as fast as possible with the autopilot
// flying and the first offered upgrade taken automatically.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks, stepsPerUpdate int) {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()
	g.SetInput(game.NewAutopilot(g))

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", stepsPerUpdate,
	)

	for {
		for i := 0; i < stepsPerUpdate; i++ {
			g.Step()
		}

		if g.State() == game.StateGameOver || g.State() == game.StateComplete {
			slog.Info("run finished", "state", g.State().String(), "tick", g.Tick(), "score", g.Score())
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "score", g.Score())
			return
		}
	}
}

func runTerminal(cfg *config.Config, opts game.Options, maxTicks int) {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	screen, err := tui.OpenScreen()
	if err != nil {
		slog.Error("failed to open terminal", "error", err)
		os.Exit(1)
	}

	app := tui.NewApp(screen, g, cfg.Derived.Width, cfg.Derived.Height, cfg.Derived.Top)
	app.MaxTicks = int32(maxTicks)
	if err := app.Run(cfg.Derived.Tick); err != nil {
		slog.Error("terminal run failed", "error", err)
	}
}

func runWindow(cfg *config.Config, opts game.Options, maxTicks, stepsPerUpdate int, mute bool) {
	screenW, screenH := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.InitWindow(screenW, screenH, "Starfall")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	synth := audio.NewSynth(cfg.Audio.SampleRate, cfg.Audio.Volume)
	if err := synth.Init(); err != nil {
		// Non-fatal, the game runs without sound
		slog.Warn("audio initialization failed", "error", err)
	}
	defer synth.Close()
	muted := mute
	synth.SetMuted(muted)

	opts.Audio = synth
	opts.Input = renderer.Keyboard{}
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	top := int32(cfg.Screen.StatusBarHeight)
	background := renderer.NewBackgroundRenderer(screenW, screenH, top, 160, g.Seed())
	entities := renderer.NewEntityRenderer()
	hud := ui.NewHUD(screenW, top)
	picker := ui.NewUpgradePicker(screenW, screenH)
	overlays := ui.NewOverlayRegistry()
	controls := ui.NewControlsPanel(10, top+10, 220)
	inspector := ui.NewInspector(screenW-290, top+10, 280)
	perfPanel := ui.NewPerfPanel(screenW-284, top+16)
	cam := camera.New(float32(screenW), float32(screenH), g.Seed())

	var snap game.Snapshot
	var inspected ui.InspectorData
	lastHealth := -1

	for !rl.WindowShouldClose() {
		overlays.HandleInput()
		if rl.IsKeyPressed(rl.KeyM) {
			muted = !muted
			synth.SetMuted(muted)
		}

		for i := 0; i < stepsPerUpdate; i++ {
			g.Step()
		}
		g.RecordFrame()
		g.Snapshot(&snap)
		if snap.State == game.StatePlaying {
			background.Update()
		}
		if lastHealth >= 0 && snap.Health < lastHealth && snap.MaxHealth > 0 {
			cam.AddTrauma(0.3 + float32(lastHealth-snap.Health)/float32(snap.MaxHealth))
		}
		lastHealth = snap.Health
		cam.Update()
		dx, dy := cam.Offset()
		view := rl.Camera2D{
			Offset:   rl.Vector2{X: cam.ViewportW/2 + dx, Y: cam.ViewportH/2 + dy},
			Target:   rl.Vector2{X: cam.ViewportW / 2, Y: cam.ViewportH / 2},
			Rotation: cam.Rotation(),
			Zoom:     1,
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode2D(view)
		background.Draw()
		entities.Draw(&snap)
		if overlays.IsEnabled(ui.OverlayHitboxes) {
			entities.DrawHitboxes(&snap)
		}
		rl.EndMode2D()

		hud.Draw(&snap)
		hud.DrawBanner(&snap, screenH)
		hud.DrawControls(screenH, controlsLegend)

		controls.Draw(overlays)
		if overlays.IsEnabled(ui.OverlayInspector) {
			inspected.Snapshot = &snap
			inspected.Loadout = g.Loadout()
			inspector.Draw(&inspected)
		}
		if overlays.IsEnabled(ui.OverlayPerf) {
			stats := g.PerfStats()
			perfPanel.Draw(ui.PerfPanelData{
				SystemTimes: stats.PhaseAvg,
				Total:       stats.AvgTickDuration,
				FPS:         stats.FPS,
				Registry:    g.Registry(),
			})
		}

		if kind, ok := picker.Draw(&snap); ok {
			if err := g.ApplyUpgrade(kind); err != nil {
				slog.Error("upgrade failed", "upgrade", kind.String(), "error", err)
			}
		}

		rl.EndDrawing()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
}
