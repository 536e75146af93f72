package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/starfall/config"
	"github.com/pthm-cable/starfall/game"
)

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s default = %v, config has %v", spec.Name, spec.Default, got[i])
		}
	}
}

func TestApplyClampsToBounds(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	high := make([]float64, pv.Dim())
	for i := range high {
		high[i] = 1e6
	}
	pv.ApplyToConfig(cfg, high)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] > spec.Max+0.5 {
			t.Errorf("%s = %v, want <= %v", spec.Name, got[i], spec.Max)
		}
	}
}

func TestNormalizeInverse(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestProgress(t *testing.T) {
	cfg := config.Default()
	timed := -1
	for i, lvl := range cfg.Levels.List {
		if lvl.Duration > 0 {
			timed = i
			break
		}
	}
	if timed < 0 {
		t.Fatal("no timed level in defaults")
	}
	dur := cfg.Levels.List[timed].Duration

	tests := []struct {
		name string
		snap game.Snapshot
		want float64
	}{
		{"not started", game.Snapshot{}, 0},
		{"half way", game.Snapshot{Level: timed + 1, Remaining: dur / 2}, float64(timed) + 0.5},
		{"level start", game.Snapshot{Level: timed + 1, Remaining: dur}, float64(timed)},
		{"complete", game.Snapshot{State: game.StateComplete}, float64(len(cfg.Levels.List))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progress(&tt.snap, cfg); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitness(t *testing.T) {
	onTarget := computeFitness(Summary{ProgressMean: 8}, 8)
	short := computeFitness(Summary{ProgressMean: 6}, 8)
	spread := computeFitness(Summary{ProgressMean: 8, ProgressStd: 2}, 8)

	if onTarget != 0 {
		t.Errorf("on target fitness = %v, want 0", onTarget)
	}
	if !(onTarget < spread && spread < short) {
		t.Errorf("fitness order: target %v, spread %v, short %v", onTarget, spread, short)
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]runResult{
		{ticks: 100, progress: 2, score: 10, finished: true},
		{ticks: 300, progress: 4, score: 30},
	})
	if s.ProgressMean != 3 || s.TicksMean != 200 || s.ScoreMean != 20 || s.Finished != 1 {
		t.Errorf("summarize() = %+v", s)
	}
	if math.Abs(s.ProgressStd-math.Sqrt2) > 1e-9 {
		t.Errorf("ProgressStd = %v, want sqrt(2)", s.ProgressStd)
	}

	single := summarize([]runResult{{progress: 1}})
	if single.ProgressStd != 0 {
		t.Errorf("single run std = %v, want 0", single.ProgressStd)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 120, []int64{1, 2}, config.Default(), 1)
	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		t.Fatalf("Evaluate() = %v", fitness)
	}
	if s := fe.Last(); s.TicksMean <= 0 || s.TicksMean > 120 {
		t.Errorf("TicksMean = %v, want in (0, 120]", s.TicksMean)
	}
}
