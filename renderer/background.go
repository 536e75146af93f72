package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type star struct {
	x, y  float32
	speed float32
	size  float32
	shade uint8
}

// BackgroundRenderer draws a parallax starfield scrolling right to left.
type BackgroundRenderer struct {
	stars            []star
	screenW, screenH float32
	top              float32
}

// NewBackgroundRenderer creates count stars spread over the playfield below top.
func NewBackgroundRenderer(screenW, screenH, top int32, count int, seed int64) *BackgroundRenderer {
	rng := rand.New(rand.NewSource(seed))
	b := &BackgroundRenderer{
		stars:   make([]star, count),
		screenW: float32(screenW),
		screenH: float32(screenH),
		top:     float32(top),
	}
	for i := range b.stars {
		depth := rng.Float32()
		b.stars[i] = star{
			x:     rng.Float32() * b.screenW,
			y:     b.top + rng.Float32()*(b.screenH-b.top),
			speed: 0.5 + depth*3,
			size:  1 + depth*1.5,
			shade: uint8(90 + depth*165),
		}
	}
	return b
}

// Update scrolls the stars by one frame.
func (b *BackgroundRenderer) Update() {
	for i := range b.stars {
		s := &b.stars[i]
		s.x -= s.speed
		if s.x < 0 {
			s.x += b.screenW
		}
	}
}

// Draw renders the starfield.
func (b *BackgroundRenderer) Draw() {
	for i := range b.stars {
		s := &b.stars[i]
		rl.DrawRectangleV(
			rl.Vector2{X: s.x, Y: s.y},
			rl.Vector2{X: s.size, Y: s.size},
			rl.Color{R: s.shade, G: s.shade, B: s.shade, A: 255},
		)
	}
}
