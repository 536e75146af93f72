package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/starfall/config"
)

// FireControl is the cadence and burst state machine of a gun.
// Counters are in frames.
type FireControl struct {
	Cooldown     float64
	CooldownTime float64

	Bursts            int // shots per burst
	CurrentBurst      int // shots left in the active burst
	BurstCooldown     int
	BurstCooldownTime int
}

// NewFireControl returns a ready single-shot gun.
func NewFireControl(cadence float64, burstGap int) FireControl {
	return FireControl{
		CooldownTime:      cadence,
		Bursts:            1,
		CurrentBurst:      1,
		BurstCooldownTime: burstGap,
	}
}

// Ready reports whether the gun fires this frame: either the full cadence has
// elapsed or a burst is in progress and its short gap has elapsed.
func (f *FireControl) Ready() bool {
	if f.Cooldown <= 0 {
		return true
	}
	return f.CurrentBurst > 0 && f.CurrentBurst < f.Bursts && f.BurstCooldown <= 0
}

// Fired resets the counters after a shot.
func (f *FireControl) Fired() {
	f.Cooldown = f.CooldownTime
	if f.Bursts <= 0 {
		return
	}
	if f.CurrentBurst > 1 {
		f.BurstCooldown = f.BurstCooldownTime
		f.CurrentBurst--
	} else {
		f.CurrentBurst = f.Bursts
		f.BurstCooldown = f.BurstCooldownTime
	}
}

// Tick decrements the counters by one frame.
func (f *FireControl) Tick() {
	f.Cooldown--
	if f.Bursts > 0 {
		f.BurstCooldown--
	}
}

// Update runs one frame and reports whether a shot was fired.
func (f *FireControl) Update() bool {
	fired := f.Ready()
	if fired {
		f.Fired()
	}
	f.Tick()
	return fired
}

// IncreaseBurst adds a shot to each burst and lengthens the cadence so the
// average fire rate grows by less than the shot count.
func (f *FireControl) IncreaseBurst() {
	f.Bursts++
	f.CooldownTime *= 0.8 * float64(f.Bursts) / float64(f.Bursts-1)
}

// FanAngles returns the firing angles in degrees for n projectiles spread
// evenly over [-spread, +spread]. A single projectile fires straight ahead.
func FanAngles(n int, spread float64) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	return floats.Span(make([]float64, n), -spread, spread)
}

// ShotVelocity returns the velocity of a projectile fired at angle degrees
// from a ship moving at (svx, svy). The ship only boosts forward.
func ShotVelocity(speed, angle, svx, svy float64) (vx, vy float64) {
	rad := angle * math.Pi / 180
	vx = speed * math.Cos(rad)
	vy = speed*math.Sin(rad) + svy/4
	if svx > 0 {
		vx += svx
	}
	return vx, vy
}

// DeflectorState is the power shield: up to Level charges that refill one at
// a time. Each hit consumes a charge.
type DeflectorState struct {
	Level         int
	MaxLevel      int
	Charge        int
	Recharge      int
	RechargeTicks int
}

// Increase raises the level and fills every charge. Returns false at max level.
func (d *DeflectorState) Increase() bool {
	if d.Level >= d.MaxLevel {
		return false
	}
	d.Level++
	d.Charge = d.Level
	d.Recharge = 0
	return true
}

// Update refills one charge once the recharge counter runs out.
func (d *DeflectorState) Update() {
	if d.Level <= d.Charge {
		return
	}
	d.Recharge--
	if d.Recharge <= 0 {
		d.Charge++
		d.Recharge = d.RechargeTicks
	}
}

// Hit consumes a charge and restarts the recharge.
func (d *DeflectorState) Hit() {
	if d.Charge > 0 {
		d.Charge--
	}
	d.Recharge = d.RechargeTicks
}

// Active reports whether the shield absorbs hits.
func (d *DeflectorState) Active() bool {
	return d.Charge > 0
}

// WeaponsController owns the player's main gun and auxiliary weapons.
type WeaponsController struct {
	cfg     config.WeaponsConfig
	fps     float64
	arena   *Arena
	spawner *Spawner
	tweens  *TweenSystem
	ctrlMap *ecs.Map[Controller]

	Gun         FireControl
	Projectiles int
	Spread      float64
	Speed       float64
	Damage      int

	wingSlots [][2]float64
	wingmen   []ecs.Entity

	shields       []ecs.Entity
	shieldCap     int
	shieldBacklog int // shields to create without waiting for the respawn timer
	shieldTimer   int

	Deflector       DeflectorState
	deflectorEntity ecs.Entity
}

// NewWeaponsController creates the starting loadout: one projectile, no escorts.
func NewWeaponsController(cfg *config.Config, a *Arena, sp *Spawner, tw *TweenSystem) *WeaponsController {
	wc := cfg.Weapons
	slots := make([][2]float64, len(wc.Wingman.Offsets))
	copy(slots, wc.Wingman.Offsets)
	return &WeaponsController{
		cfg:         wc,
		fps:         cfg.Derived.FPS,
		arena:       a,
		spawner:     sp,
		tweens:      tw,
		ctrlMap:     ecs.NewMap[Controller](a.World()),
		Gun:         NewFireControl(cfg.Derived.FireTicks, wc.BurstCooldownTicks),
		Projectiles: 1,
		Spread:      wc.Spread,
		Speed:       wc.ProjectileSpeed,
		Damage:      wc.ShotDamage,
		wingSlots:   slots,
		Deflector: DeflectorState{
			MaxLevel:      wc.Deflector.MaxLevel,
			RechargeTicks: int(math.Round(wc.Deflector.RechargeSeconds * cfg.Derived.FPS)),
		},
	}
}

// Update runs one frame for a ship entity. It must run outside of queries
// because it creates entities. Returns the number of projectiles fired.
func (w *WeaponsController) Update(ship ecs.Entity) int {
	if !w.arena.Alive(ship) {
		return 0
	}
	w.wingmen = w.pruneDead(w.wingmen)
	w.updateShields()
	w.updateDeflector()

	if !w.Gun.Update() {
		return 0
	}
	return w.volley(ship)
}

func (w *WeaponsController) pruneDead(list []ecs.Entity) []ecs.Entity {
	kept := list[:0]
	for _, e := range list {
		if w.arena.Alive(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

func (w *WeaponsController) volley(ship ecs.Entity) int {
	pos := w.arena.Position(ship)
	vel := w.arena.Velocity(ship)
	body := w.arena.Body(ship)
	r := body.Rect(*pos)

	x := float64(r.Right()) - w.cfg.MuzzleInset
	y := float64(r.Y + r.H/2)
	angles := FanAngles(w.Projectiles, w.Spread)
	for _, a := range angles {
		vx, vy := ShotVelocity(w.Speed, a, vel.X, vel.Y)
		w.spawner.SpawnShot(x, y, vx, vy, w.Damage)
	}
	return len(angles)
}

// IncreaseProjectiles adds a projectile to each volley. Going from one to two
// projectiles resets the spread to its initial value; later steps widen it up to the maximum.
func (w *WeaponsController) IncreaseProjectiles() {
	if w.Projectiles == 1 {
		w.Spread = w.cfg.InitialSpread
		w.Projectiles = 2
		return
	}
	w.Projectiles++
	w.Spread = math.Min(w.Spread*w.cfg.SpreadGrowth, w.cfg.MaxSpread)
}

// IncreaseBurst adds a shot to each burst.
func (w *WeaponsController) IncreaseBurst() {
	w.Gun.IncreaseBurst()
}

// ScaleFireRate multiplies the cadence by factor.
func (w *WeaponsController) ScaleFireRate(factor float64) {
	w.Gun.CooldownTime *= factor
}

// WingmanSlots returns the number of free wingman positions.
func (w *WeaponsController) WingmanSlots() int {
	return len(w.wingSlots)
}

// Wingmen returns the live wingman handles.
func (w *WeaponsController) Wingmen() []ecs.Entity {
	return w.wingmen
}

// AddWingmen pops up to two formation slots, last first, and creates a wingman
// for each. Wingmen start on the ship and ease out to their slot.
// Returns the number added.
func (w *WeaponsController) AddWingmen(ship ecs.Entity) int {
	if !w.arena.Alive(ship) {
		return 0
	}
	added := 0
	for i := 0; i < 2 && len(w.wingSlots) > 0; i++ {
		slot := w.wingSlots[len(w.wingSlots)-1]
		w.wingSlots = w.wingSlots[:len(w.wingSlots)-1]

		e := w.spawner.SpawnWingman(slot[0], slot[1])
		w.tweens.AddAnchoredOffset(e, -slot[0], -slot[1], w.cfg.Wingman.EaseSeconds)
		w.wingmen = append(w.wingmen, e)
		added++
	}
	return added
}

// RaiseShieldCap allows n more rotating shields and creates them on the next update.
func (w *WeaponsController) RaiseShieldCap(n int) {
	w.shieldCap += n
	w.shieldBacklog += n
	w.shieldTimer = 0
}

// ShieldCap returns the maximum number of rotating shields.
func (w *WeaponsController) ShieldCap() int {
	return w.shieldCap
}

// Shields returns the live rotating shield handles.
func (w *WeaponsController) Shields() []ecs.Entity {
	return w.shields
}

func (w *WeaponsController) updateShields() {
	before := len(w.shields)
	w.shields = w.pruneDead(w.shields)
	if len(w.shields) < before && w.shieldTimer <= 0 {
		w.shieldTimer = w.respawnTicks()
	}
	if len(w.shields) >= w.shieldCap {
		w.shieldBacklog = 0
		return
	}

	if w.shieldBacklog > 0 {
		for w.shieldBacklog > 0 && len(w.shields) < w.shieldCap {
			w.spawnShield()
			w.shieldBacklog--
		}
		return
	}

	w.shieldTimer--
	if w.shieldTimer <= 0 {
		w.spawnShield()
		w.shieldTimer = w.respawnTicks()
	}
}

func (w *WeaponsController) respawnTicks() int {
	return int(math.Round(w.cfg.RotatingShield.RespawnSeconds * w.fps))
}

// spawnShield places a new shield spaced evenly after the first live one.
func (w *WeaponsController) spawnShield() {
	angle := 0.0
	if len(w.shields) > 0 && w.shieldCap > 0 {
		if rs, ok := w.ctrlMap.Get(w.shields[0]).Behavior.(*RotatingShield); ok {
			angle = math.Mod(rs.Angle+360*float64(len(w.shields))/float64(w.shieldCap), 360)
		}
	}
	w.shields = append(w.shields, w.spawner.SpawnRotatingShield(angle))
}

// IncreaseDeflector raises the deflector level. Returns false at max level.
func (w *WeaponsController) IncreaseDeflector() bool {
	return w.Deflector.Increase()
}

// DeflectorEntity returns the deflector handle, if it exists.
func (w *WeaponsController) DeflectorEntity() (ecs.Entity, bool) {
	if !w.arena.Alive(w.deflectorEntity) {
		return noEntity, false
	}
	return w.deflectorEntity, true
}

// DeflectorHit records a deflector impact.
func (w *WeaponsController) DeflectorHit() {
	w.Deflector.Hit()
}

func (w *WeaponsController) updateDeflector() {
	if w.Deflector.Level == 0 {
		return
	}
	if !w.arena.Alive(w.deflectorEntity) {
		w.deflectorEntity = w.spawner.SpawnDeflector()
	}
	w.Deflector.Update()
}
