// Package camera provides a fixed 2D camera with screen shake.
package camera

import "math/rand"

// Camera shakes the fixed playfield view on impacts.
// Shake strength follows trauma squared, and trauma decays linearly.
type Camera struct {
	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// MaxOffset is the largest shake offset in pixels at full trauma.
	MaxOffset float32
	// MaxAngle is the largest shake rotation in degrees at full trauma.
	MaxAngle float32
	// Decay is the trauma lost per frame.
	Decay float32

	trauma  float32
	offsetX float32
	offsetY float32
	angle   float32
	rng     *rand.Rand
}

// New creates a camera for a viewport of the given size.
func New(viewportW, viewportH float32, seed int64) *Camera {
	return &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MaxOffset: 12,
		MaxAngle:  1.5,
		Decay:     0.04,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// AddTrauma raises the shake level. Trauma saturates at 1.
func (c *Camera) AddTrauma(amount float32) {
	c.trauma = clamp(c.trauma+amount, 0, 1)
}

// Trauma returns the current shake level in [0, 1].
func (c *Camera) Trauma() float32 {
	return c.trauma
}

// Update decays trauma and rolls the shake for the next frame.
func (c *Camera) Update() {
	if c.trauma <= 0 {
		c.offsetX, c.offsetY, c.angle = 0, 0, 0
		return
	}
	shake := c.trauma * c.trauma
	c.offsetX = c.MaxOffset * shake * c.signed()
	c.offsetY = c.MaxOffset * shake * c.signed()
	c.angle = c.MaxAngle * shake * c.signed()
	c.trauma = clamp(c.trauma-c.Decay, 0, 1)
}

// Offset returns the current shake translation in pixels.
func (c *Camera) Offset() (dx, dy float32) {
	return c.offsetX, c.offsetY
}

// Rotation returns the current shake rotation in degrees.
func (c *Camera) Rotation() float32 {
	return c.angle
}

// Reset stops any shake.
func (c *Camera) Reset() {
	c.trauma = 0
	c.offsetX, c.offsetY, c.angle = 0, 0, 0
}

// signed returns a uniform value in [-1, 1).
func (c *Camera) signed() float32 {
	return c.rng.Float32()*2 - 1
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
