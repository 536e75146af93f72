package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Run state at window end
	Level       int `csv:"level"`
	Score       int `csv:"score"`
	Health      int `csv:"health"`
	Projectiles int `csv:"projectiles"`
	Wingmen     int `csv:"wingmen"`
	Shields     int `csv:"shields"`

	// Combat during window
	ShotsFired    int     `csv:"shots_fired"`
	Hits          int     `csv:"hits"`
	Accuracy      float64 `csv:"accuracy"`
	Kills         int     `csv:"kills"`
	AsteroidKills int     `csv:"asteroid_kills"`
	SwarmerKills  int     `csv:"swarmer_kills"`
	ShipKills     int     `csv:"ship_kills"`
	ScoreGained   int     `csv:"score_gained"`
	DamageTaken   int     `csv:"damage_taken"`
	GemsCollected int     `csv:"gems"`

	// Spawning
	Spawned           int `csv:"spawned"`
	PlacementFailures int `csv:"placement_failures"`
	Upgrades          int `csv:"upgrades"`

	// Collision work
	BroadPairs  int `csv:"broad_pairs"`
	NarrowPairs int `csv:"narrow_pairs"`

	// Live enemy count, sampled every frame
	EnemiesMean float64 `csv:"enemies_mean"`
	EnemiesStd  float64 `csv:"enemies_std"`
	EnemiesP50  float64 `csv:"enemies_p50"`
	EnemiesP90  float64 `csv:"enemies_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns the mean, population standard deviation and
// median and 90th percentile of values.
func ComputeDistribution(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("level", s.Level),
		slog.Int("score", s.Score),
		slog.Int("health", s.Health),
		slog.Int("projectiles", s.Projectiles),
		slog.Int("wingmen", s.Wingmen),
		slog.Int("shields", s.Shields),
		slog.Int("shots_fired", s.ShotsFired),
		slog.Int("hits", s.Hits),
		slog.Float64("accuracy", s.Accuracy),
		slog.Int("kills", s.Kills),
		slog.Int("score_gained", s.ScoreGained),
		slog.Int("damage_taken", s.DamageTaken),
		slog.Int("gems", s.GemsCollected),
		slog.Int("spawned", s.Spawned),
		slog.Int("placement_failures", s.PlacementFailures),
		slog.Int("upgrades", s.Upgrades),
		slog.Int("broad_pairs", s.BroadPairs),
		slog.Int("narrow_pairs", s.NarrowPairs),
		slog.Float64("enemies_mean", s.EnemiesMean),
		slog.Float64("enemies_p90", s.EnemiesP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
