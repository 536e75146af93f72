package components

// Ship holds player-only state: thrust tuning, the lagging health bar and a
// fixed-length position history.
type Ship struct {
	MaxHealth int
	HealthBar int // Displayed health, moves one point per frame toward Health.Current

	Accel    float64
	MaxSpeed float64
	Brakes   float64 // Acceleration multiplier when thrusting against the current velocity
	Damping  float64 // Velocity multiplier on frames with no thrust
	Bounce   float64 // Velocity multiplier on border contact

	history []Position
	head    int // index of the oldest entry
}

// NewShip creates a ship whose history is filled with the start position.
func NewShip(start Position, historyLen, health int) Ship {
	if historyLen < 1 {
		historyLen = 1
	}
	h := make([]Position, historyLen)
	for i := range h {
		h[i] = start
	}
	return Ship{
		MaxHealth: health,
		HealthBar: health,
		history:   h,
	}
}

// PushHistory records the current position, evicting the oldest one.
func (s *Ship) PushHistory(p Position) {
	if len(s.history) == 0 {
		s.history = []Position{p}
		return
	}
	s.history[s.head] = p
	s.head = (s.head + 1) % len(s.history)
}

// Trail returns the oldest recorded position. Followers anchor to it.
func (s *Ship) Trail() Position {
	if len(s.history) == 0 {
		return Position{}
	}
	return s.history[s.head]
}

// History returns the recorded positions, oldest first.
func (s *Ship) History() []Position {
	out := make([]Position, 0, len(s.history))
	for i := 0; i < len(s.history); i++ {
		out = append(out, s.history[(s.head+i)%len(s.history)])
	}
	return out
}

// StepHealthBar moves the displayed health one point toward health.
func (s *Ship) StepHealthBar(health int) {
	switch {
	case health < s.HealthBar:
		s.HealthBar--
	case health > s.HealthBar:
		s.HealthBar++
	}
}

// Thrust applies one axis of player input to velocity v.
// dir is -1, 0 or +1. Reversing direction uses the brake multiplier.
func (s *Ship) Thrust(v, dir float64) float64 {
	switch {
	case dir < 0:
		if v > 0 {
			return v - s.Brakes*s.Accel
		}
		return v - s.Accel
	case dir > 0:
		if v < 0 {
			return v + s.Brakes*s.Accel
		}
		return v + s.Accel
	}
	return v
}

// ClampSpeed restricts each velocity axis to ±MaxSpeed.
func (s *Ship) ClampSpeed(v *Velocity) {
	v.X = clamp(v.X, -s.MaxSpeed, s.MaxSpeed)
	v.Y = clamp(v.Y, -s.MaxSpeed, s.MaxSpeed)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
