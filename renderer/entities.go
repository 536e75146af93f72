package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfall/components"
	"github.com/pthm-cable/starfall/game"
)

// kindColors is the fill color of each catalog kind.
var kindColors = [components.KindCount]rl.Color{
	components.KindPlayer:         {R: 90, G: 180, B: 255, A: 255},
	components.KindShot:           {R: 255, G: 255, B: 160, A: 255},
	components.KindMissile:        {R: 255, G: 200, B: 80, A: 255},
	components.KindWingman:        {R: 120, G: 220, B: 255, A: 255},
	components.KindRotatingShield: {R: 120, G: 255, B: 200, A: 220},
	components.KindDeflector:      {R: 140, G: 200, B: 255, A: 110},
	components.KindSwarmer:        {R: 230, G: 90, B: 90, A: 255},
	components.KindAsteroid:       {R: 140, G: 120, B: 100, A: 255},
	components.KindChaser:         {R: 240, G: 140, B: 60, A: 255},
	components.KindSineShip:       {R: 200, G: 100, B: 220, A: 255},
	components.KindOrbitBoss:      {R: 200, G: 40, B: 60, A: 255},
	components.KindSimpleBullet:   {R: 255, G: 120, B: 120, A: 255},
	components.KindRoundBullet:    {R: 255, G: 160, B: 220, A: 255},
	components.KindSlashBullet:    {R: 255, G: 80, B: 200, A: 255},
	components.KindFireBullet:     {R: 255, G: 140, B: 30, A: 255},
	components.KindGem:            {R: 80, G: 255, B: 160, A: 255},
	components.KindExplosion:      {R: 255, G: 180, B: 60, A: 255},
}

// EntityRenderer draws the sprites of a snapshot.
type EntityRenderer struct {
	particles *ParticleRenderer
}

// NewEntityRenderer creates an entity renderer.
func NewEntityRenderer() *EntityRenderer {
	return &EntityRenderer{particles: NewParticleRenderer()}
}

// Draw renders every entity in snapshot order.
func (r *EntityRenderer) Draw(snap *game.Snapshot) {
	for i := range snap.Entities {
		v := &snap.Entities[i]
		if v.Kind == components.KindExplosion {
			r.particles.Draw(v)
			continue
		}
		r.drawSprite(v)
	}
}

func (r *EntityRenderer) drawSprite(v *game.EntityView) {
	color := rl.Magenta
	if int(v.Kind) < len(kindColors) {
		color = kindColors[v.Kind]
	}
	if v.Flash {
		color = rl.White
	}

	x := float32(v.X) - float32(v.W)/2
	y := float32(v.Y) - float32(v.H)/2
	w, h := float32(v.W), float32(v.H)
	center := rl.Vector2{X: float32(v.X), Y: float32(v.Y)}

	switch v.Kind {
	case components.KindPlayer, components.KindWingman:
		// Nose points right
		rl.DrawTriangle(
			rl.Vector2{X: x + w, Y: center.Y},
			rl.Vector2{X: x, Y: y},
			rl.Vector2{X: x, Y: y + h},
			color,
		)
	case components.KindSwarmer, components.KindChaser, components.KindSineShip:
		// Nose points left
		rl.DrawTriangle(
			rl.Vector2{X: x, Y: center.Y},
			rl.Vector2{X: x + w, Y: y + h},
			rl.Vector2{X: x + w, Y: y},
			color,
		)
	case components.KindRoundBullet, components.KindFireBullet, components.KindGem, components.KindRotatingShield:
		rl.DrawCircleV(center, min(w, h)/2, color)
	case components.KindDeflector:
		rl.DrawEllipse(int32(center.X), int32(center.Y), w/2, h/2, color)
	case components.KindOrbitBoss:
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, color)
		drawHealthStrip(x, y-8, w, v.Health, v.Max)
	default:
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, color)
	}
}

// drawHealthStrip draws a thin health bar above a sprite.
func drawHealthStrip(x, y, w float32, health, maxHealth int) {
	if maxHealth <= 0 {
		return
	}
	ratio := float32(health) / float32(maxHealth)
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: 4}, rl.Color{R: 40, G: 40, B: 40, A: 255})
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w * ratio, Height: 4}, rl.Color{R: 200, G: 100, B: 100, A: 255})
}

// DrawHitboxes outlines the bounding box of every entity.
func (r *EntityRenderer) DrawHitboxes(snap *game.Snapshot) {
	for i := range snap.Entities {
		v := &snap.Entities[i]
		if v.Kind == components.KindExplosion {
			continue
		}
		color := rl.Green
		if v.Group.Hostile() {
			color = rl.Red
		}
		rl.DrawRectangleLines(int32(v.X)-int32(v.W)/2, int32(v.Y)-int32(v.H)/2, int32(v.W), int32(v.H), color)
	}
}
