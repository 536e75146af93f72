package systems

import (
	"math"
	"testing"
)

func firedFrames(f *FireControl, frames int) []int {
	var out []int
	for i := 0; i < frames; i++ {
		if f.Update() {
			out = append(out, i)
		}
	}
	return out
}

func TestFireControlCadence(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		want   int
	}{
		{"first frame fires", 1, 1},
		{"one cadence", 30, 1},
		{"one cadence plus a frame", 31, 2},
		{"three cadences", 90, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFireControl(30, 3)
			if got := len(firedFrames(&f, tt.frames)); got != tt.want {
				t.Errorf("shots in %d frames = %d, want %d", tt.frames, got, tt.want)
			}
		})
	}
}

func TestFireControlBurst(t *testing.T) {
	f := FireControl{CooldownTime: 30, Bursts: 3, CurrentBurst: 3, BurstCooldownTime: 3}
	got := firedFrames(&f, 40)
	want := []int{0, 3, 6, 36}
	if len(got) != len(want) {
		t.Fatalf("fired at %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("shot %d at frame %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFireControlIncreaseBurst(t *testing.T) {
	f := NewFireControl(30, 3)
	f.IncreaseBurst()
	if f.Bursts != 2 {
		t.Errorf("Bursts = %d, want 2", f.Bursts)
	}
	// 30 * 0.8 * 2/1
	if math.Abs(f.CooldownTime-48) > 1e-9 {
		t.Errorf("CooldownTime = %v, want 48", f.CooldownTime)
	}
	f.IncreaseBurst()
	// 48 * 0.8 * 3/2
	if math.Abs(f.CooldownTime-57.6) > 1e-9 {
		t.Errorf("CooldownTime = %v, want 57.6", f.CooldownTime)
	}
}

func TestFanAngles(t *testing.T) {
	tests := []struct {
		n      int
		spread float64
		want   []float64
	}{
		{1, 30, []float64{0}},
		{2, 20, []float64{-20, 20}},
		{3, 30, []float64{-30, 0, 30}},
		{5, 40, []float64{-40, -20, 0, 20, 40}},
	}
	for _, tt := range tests {
		got := FanAngles(tt.n, tt.spread)
		if len(got) != len(tt.want) {
			t.Errorf("FanAngles(%d, %v) = %v, want %v", tt.n, tt.spread, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("FanAngles(%d, %v)[%d] = %v, want %v", tt.n, tt.spread, i, got[i], tt.want[i])
			}
		}
	}
}

func TestShotVelocity(t *testing.T) {
	tests := []struct {
		name           string
		angle, vx, vy  float64
		wantVX, wantVY float64
	}{
		{"straight from rest", 0, 0, 0, 16, 0},
		{"forward boost", 0, 4, 0, 20, 0},
		{"no backward drag", 0, -4, 0, 16, 0},
		{"vertical quarter", 0, 0, 8, 16, 2},
		{"upward shot", -90, 0, 0, 0, -16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vx, vy := ShotVelocity(16, tt.angle, tt.vx, tt.vy)
			if math.Abs(vx-tt.wantVX) > 1e-9 || math.Abs(vy-tt.wantVY) > 1e-9 {
				t.Errorf("ShotVelocity = (%v, %v), want (%v, %v)", vx, vy, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestDeflectorState(t *testing.T) {
	d := DeflectorState{MaxLevel: 2, RechargeTicks: 5}
	if d.Active() {
		t.Fatal("deflector active at level 0")
	}
	if !d.Increase() || d.Level != 1 || d.Charge != 1 {
		t.Fatalf("after Increase: level %d charge %d, want 1, 1", d.Level, d.Charge)
	}
	d.Increase()
	if d.Increase() {
		t.Error("Increase beyond MaxLevel succeeded")
	}

	d.Hit()
	d.Hit()
	if d.Active() {
		t.Errorf("Charge = %d after two hits, want 0", d.Charge)
	}

	for i := 0; i < 4; i++ {
		d.Update()
	}
	if d.Charge != 0 {
		t.Errorf("Charge = %d after 4 frames, want 0", d.Charge)
	}
	d.Update()
	if d.Charge != 1 {
		t.Errorf("Charge = %d after 5 frames, want 1", d.Charge)
	}
	for i := 0; i < 5; i++ {
		d.Update()
	}
	if d.Charge != 2 {
		t.Errorf("Charge = %d after 10 frames, want 2", d.Charge)
	}
	d.Update()
	if d.Charge != 2 {
		t.Errorf("Charge = %d, must not exceed level 2", d.Charge)
	}
}
