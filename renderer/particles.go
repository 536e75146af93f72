package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/game"
)

// ParticleRenderer renders explosion effects.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders one explosion as an expanding ring that fades out.
func (r *ParticleRenderer) Draw(v *game.EntityView) {
	life := float32(1 - v.Progress)
	radius := float32(max(v.W, v.H)) / 2
	grow := radius * (0.4 + 0.8*float32(v.Progress))

	center := rl.Vector2{X: float32(v.X), Y: float32(v.Y)}

	// Hot core
	rl.DrawCircleV(center, grow*0.6, rl.Color{
		R: 255,
		G: 220,
		B: 120,
		A: uint8(life * 200),
	})
	// Outer ring
	rl.DrawRing(center, grow*0.7, grow, 0, 360, 24, rl.Color{
		R: 255,
		G: 120,
		B: 40,
		A: uint8(life * 220),
	})
}
