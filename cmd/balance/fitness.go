package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/starfall/config"
	"github.com/pthm-cable/starfall/game"
)

// FitnessEvaluator runs headless autopilot games and scores how close their
// progress lands to a target level.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	targetLevel float64

	mu          sync.Mutex
	bestFitness float64
	last        Summary // summary of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, targetLevel float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targetLevel: targetLevel,
		bestFitness: math.Inf(1),
	}
}

// runResult holds the outcome of a single game.
type runResult struct {
	ticks    int32
	progress float64 // levels cleared plus the fraction of the level reached
	score    int
	finished bool // game over or all levels cleared before maxTicks
}

// Summary aggregates the runs of one evaluation.
type Summary struct {
	ProgressMean float64
	ProgressStd  float64
	TicksMean    float64
	ScoreMean    float64
	Finished     int // runs that ended before maxTicks
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Every seed runs in its own goroutine with its own game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	summary := summarize(results)
	fitness := computeFitness(summary, fe.targetLevel)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.last = summary
	fe.mu.Unlock()

	return fitness
}

// runSimulation plays one game with the autopilot until it ends or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg, err := fe.baseConfig.Clone()
	if err != nil {
		slog.Error("config clone failed", "error", err)
		return runResult{}
	}
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(cfg, game.Options{Seed: seed, AutoUpgrade: true})
	if err != nil {
		slog.Error("game creation failed", "seed", seed, "error", err)
		return runResult{}
	}
	defer g.Close()
	g.SetInput(game.NewAutopilot(g))

	for g.Tick() < fe.maxTicks {
		g.Step()
		if s := g.State(); s == game.StateGameOver || s == game.StateComplete {
			break
		}
	}

	var snap game.Snapshot
	g.Snapshot(&snap)
	return runResult{
		ticks:    g.Tick(),
		progress: progress(&snap, cfg),
		score:    g.Score(),
		finished: snap.State != game.StatePlaying,
	}
}

// progress is the number of levels cleared plus the elapsed fraction of the
// current one. Boss levels count as half done until cleared.
func progress(snap *game.Snapshot, cfg *config.Config) float64 {
	if snap.State == game.StateComplete {
		return float64(len(cfg.Levels.List))
	}
	if snap.Level == 0 {
		return 0
	}
	done := float64(snap.Level - 1)
	lvl := cfg.Levels.List[snap.Level-1]
	if lvl.Duration <= 0 {
		return done + 0.5
	}
	frac := 1 - float64(snap.Remaining)/float64(lvl.Duration)
	return done + clamp01(frac)
}

func summarize(results []runResult) Summary {
	progress := make([]float64, len(results))
	ticks := make([]float64, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		progress[i] = r.progress
		ticks[i] = float64(r.ticks)
		scores[i] = float64(r.score)
	}

	var s Summary
	for _, r := range results {
		if r.finished {
			s.Finished++
		}
	}
	s.ProgressMean, s.ProgressStd = stat.MeanStdDev(progress, nil)
	if math.IsNaN(s.ProgressStd) {
		s.ProgressStd = 0
	}
	s.TicksMean = stat.Mean(ticks, nil)
	s.ScoreMean = stat.Mean(scores, nil)
	return s
}

// computeFitness penalizes distance from the target level and spread
// across seeds. Spread is weighted lower so it only separates candidates
// with similar mean progress.
func computeFitness(s Summary, target float64) float64 {
	miss := s.ProgressMean - target
	return miss*miss + 0.25*s.ProgressStd*s.ProgressStd
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
