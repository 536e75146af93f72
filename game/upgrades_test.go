package game

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/starfall/systems"
)

func TestUpgradeThreshold(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{1, 80},
		{2, 240},
		{3, 480},
		{4, 800},
	}
	for _, tt := range tests {
		if got := UpgradeThreshold(tt.level, 40); got != tt.want {
			t.Errorf("UpgradeThreshold(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCheckUpgradePauses(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	g.score = 79
	g.checkUpgrade()
	if g.State() != StatePlaying {
		t.Fatalf("State() = %v below threshold", g.State())
	}

	g.score = 80
	g.checkUpgrade()
	if g.State() != StateUpgrade {
		t.Fatalf("State() = %v, want upgrade", g.State())
	}
	if g.NextUpgrade() != 240 || g.UpgradeLevel() != 2 {
		t.Errorf("next = %d level = %d, want 240, 2", g.NextUpgrade(), g.UpgradeLevel())
	}
	choices := g.PendingChoices()
	if len(choices) != 3 {
		t.Fatalf("choices = %v, want 3", choices)
	}

	tick := g.Tick()
	g.Step()
	if g.Tick() != tick {
		t.Error("Step advanced while waiting for an upgrade")
	}

	if err := g.ApplyUpgrade(choices[0]); err != nil {
		t.Fatalf("ApplyUpgrade(%v) error = %v", choices[0], err)
	}
	if g.State() != StatePlaying || g.PendingChoices() != nil {
		t.Errorf("State() = %v after upgrade, want playing with no choices", g.State())
	}
}

func TestApplyUpgradeNotImplemented(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	g.state = StateUpgrade

	for _, kind := range []UpgradeKind{UpgradeSpread, UpgradeKind(200)} {
		if err := g.ApplyUpgrade(kind); !errors.Is(err, systems.ErrNotImplemented) {
			t.Errorf("ApplyUpgrade(%v) error = %v, want ErrNotImplemented", kind, err)
		}
	}
	if g.State() != StateUpgrade {
		t.Errorf("State() = %v, want still waiting", g.State())
	}
}

func TestApplyMaxHealth(t *testing.T) {
	tests := []struct {
		name          string
		health        int
		wantHealth    int
		wantMaxHealth int
	}{
		{"full", 100, 140, 140},
		{"damaged", 50, 90, 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, Options{Seed: 2})
			g.arena.Health(g.player).Current = tt.health

			if err := g.ApplyUpgrade(UpgradeMaxHealth); err != nil {
				t.Fatal(err)
			}
			h := g.arena.Health(g.player)
			if h.Current != tt.wantHealth || h.Max != tt.wantMaxHealth {
				t.Errorf("health = %d/%d, want %d/%d", h.Current, h.Max, tt.wantHealth, tt.wantMaxHealth)
			}
			if ship := g.ship.Ship(g.player); ship.MaxHealth != tt.wantMaxHealth {
				t.Errorf("ship MaxHealth = %d, want %d", ship.MaxHealth, tt.wantMaxHealth)
			}
		})
	}
}

func TestApplySpeedAndFireRate(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	ship := g.ship.Ship(g.player)
	speed, accel := ship.MaxSpeed, ship.Accel
	cooldown := g.weapons.Gun.CooldownTime

	if err := g.ApplyUpgrade(UpgradeSpeed); err != nil {
		t.Fatal(err)
	}
	if err := g.ApplyUpgrade(UpgradeFireRate); err != nil {
		t.Fatal(err)
	}
	if math.Abs(ship.MaxSpeed-speed*1.2) > 1e-9 || math.Abs(ship.Accel-accel*1.2) > 1e-9 {
		t.Errorf("speed = %v accel = %v, want ×1.2", ship.MaxSpeed, ship.Accel)
	}
	if got := g.weapons.Gun.CooldownTime; math.Abs(got-cooldown*0.85) > 1e-9 {
		t.Errorf("cooldown = %v, want %v", got, cooldown*0.85)
	}
}

func TestAvailableUpgrades(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	kinds := g.ListAvailableUpgradeKinds()
	if slices.Contains(kinds, UpgradeSpread) {
		t.Error("spread offered without an implementation")
	}
	if !slices.Contains(kinds, UpgradeShield) {
		t.Error("shield missing at level 0")
	}

	for g.weapons.IncreaseDeflector() {
	}
	if slices.Contains(g.ListAvailableUpgradeKinds(), UpgradeShield) {
		t.Error("shield offered at max level")
	}

	for g.weapons.WingmanSlots() > 0 {
		g.weapons.AddWingmen(g.player)
	}
	if slices.Contains(g.ListAvailableUpgradeKinds(), UpgradeWingman) {
		t.Error("wingman offered with no free slots")
	}
}

func TestAutoUpgrade(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2, AutoUpgrade: true})
	g.score = 100
	g.checkUpgrade()
	if g.State() != StatePlaying {
		t.Errorf("State() = %v, want playing after auto upgrade", g.State())
	}
	if g.NextUpgrade() != 240 {
		t.Errorf("NextUpgrade() = %d, want 240", g.NextUpgrade())
	}
}
