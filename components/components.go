// Package components defines ECS components for the simulation.
package components

// Position is the entity's center in playfield pixels.
type Position struct {
	X, Y float64
}

// Velocity is applied to Position once per frame.
type Velocity struct {
	X, Y float64
}

// Acceleration is applied to Velocity once per frame.
type Acceleration struct {
	X, Y float64
}

// Health tracks hit points and the transient hit-flash countdown.
// While Flash > 0 the entity renders in its "hit" state.
type Health struct {
	Current   int
	Max       int
	Flash     int
	FlashTime int
}

// Alive reports whether the entity still has hit points.
func (h *Health) Alive() bool {
	return h.Current > 0
}

// Damage subtracts amount and reports whether the entity is destroyed.
// A surviving entity starts its hit flash.
func (h *Health) Damage(amount int) bool {
	h.Current -= amount
	if h.Current <= 0 {
		return true
	}
	h.Flash = h.FlashTime
	return false
}

// Heal adds amount, never exceeding Max.
func (h *Health) Heal(amount int) {
	h.Current += amount
	h.Clamp()
}

// Clamp restricts Current to [0, Max].
func (h *Health) Clamp() {
	if h.Current > h.Max {
		h.Current = h.Max
	}
	if h.Current < 0 {
		h.Current = 0
	}
}

// Flashing reports whether the hit flash is active.
func (h *Health) Flashing() bool {
	return h.Flash > 0
}

// Body is the collision shape: a W×H rectangle centered on Position plus a pixel mask.
type Body struct {
	W, H int
	Mask *Mask

	// Fragile entities are removed once they leave the playfield by more than KillOffset.
	Fragile    bool
	KillOffset float64

	// Pinned entities are placed by their behavior and skip velocity integration.
	Pinned bool
}

// Rect returns the integer bounding rectangle at the given position.
func (b *Body) Rect(p Position) Rect {
	return RectAt(p.X, p.Y, b.W, b.H)
}

// Tag identifies the collision group and catalog kind of an entity.
type Tag struct {
	Group Group
	Kind  Kind
}

// Stats holds the scoring and damage values of an entity.
type Stats struct {
	Score           int // Awarded to the player on destruction
	Size            int // Tier: scales impact deflection and explosion size
	CollisionDamage int // Dealt to the player ship on contact
	Damage          int // Dealt by projectiles and shields
	Value           int // Gem score value
}
