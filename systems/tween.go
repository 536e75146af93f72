package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/starfall/components"
)

// progressEpsilon absorbs float accumulation error so a tween of D seconds
// finishes after exactly FPS·D frames.
const progressEpsilon = 1e-9

// Easing maps progress in [0, 1] to an interpolation factor.
type Easing func(t float64) float64

// unitEasing adapts a gween curve to progress in [0, 1].
func unitEasing(f ease.TweenFunc) Easing {
	return func(t float64) float64 {
		return float64(f(float32(t), 0, 1, 1))
	}
}

var (
	// EaseInOutCubic accelerates during the first half and decelerates during the second.
	EaseInOutCubic = unitEasing(ease.InOutCubic)
	// Linear is the identity easing.
	Linear = unitEasing(ease.Linear)
)

// TweenKind selects how a tween applies to its target.
type TweenKind uint8

const (
	// AnchoredOffset adds a decaying offset on top of the target's own motion.
	AnchoredOffset TweenKind = iota
	// RelativeMove adds the eased increment each frame.
	RelativeMove
	// AbsoluteMove sets the target's position between a captured start and a goal.
	AbsoluteMove
)

// Tween is a time-parameterized move of one entity.
// The target is a weak handle: the tween never keeps it alive.
type Tween struct {
	Kind     TweenKind
	Target   ecs.Entity
	StartX   float64
	StartY   float64
	X, Y     float64 // offset or goal
	Step     float64 // progress per frame
	Progress float64
	Ease     Easing
}

// point returns the eased point on the segment (x0,y0)-(x1,y1).
func point(x0, y0, x1, y1, f float64) (float64, float64) {
	return x0 + (x1-x0)*f, y0 + (y1-y0)*f
}

// TweenSystem advances every active tween once per frame.
type TweenSystem struct {
	arena  *Arena
	posMap *ecs.Map[components.Position]
	fps    float64
	tweens []Tween
}

// NewTweenSystem creates a tween engine stepping at fps frames per second.
func NewTweenSystem(a *Arena, fps float64) *TweenSystem {
	return &TweenSystem{
		arena:  a,
		posMap: ecs.NewMap[components.Position](a.World()),
		fps:    fps,
	}
}

func (s *TweenSystem) add(kind TweenKind, e ecs.Entity, x, y, seconds float64) {
	if !s.arena.Alive(e) {
		return
	}
	step := 1.0
	if seconds > 0 && s.fps > 0 {
		step = 1 / (s.fps * seconds)
	}
	t := Tween{Kind: kind, Target: e, X: x, Y: y, Step: step, Ease: EaseInOutCubic}
	if kind == AbsoluteMove {
		pos := s.posMap.Get(e)
		t.StartX, t.StartY = pos.X, pos.Y
	}
	s.tweens = append(s.tweens, t)
}

// AddAnchoredOffset starts e displaced by (dx, dy) and eases the displacement to zero.
func (s *TweenSystem) AddAnchoredOffset(e ecs.Entity, dx, dy, seconds float64) {
	s.add(AnchoredOffset, e, dx, dy, seconds)
}

// AddRelativeMove moves e by (dx, dy) in total over the given time.
func (s *TweenSystem) AddRelativeMove(e ecs.Entity, dx, dy, seconds float64) {
	s.add(RelativeMove, e, dx, dy, seconds)
}

// AddAbsoluteMove moves e from its current position to (x, y).
func (s *TweenSystem) AddAbsoluteMove(e ecs.Entity, x, y, seconds float64) {
	s.add(AbsoluteMove, e, x, y, seconds)
}

// Len returns the number of active tweens.
func (s *TweenSystem) Len() int {
	return len(s.tweens)
}

// Clear drops all tweens.
func (s *TweenSystem) Clear() {
	s.tweens = s.tweens[:0]
}

// Update advances every tween, applies it and prunes finished ones.
// Tweens whose target died are dropped without touching it.
func (s *TweenSystem) Update() {
	kept := s.tweens[:0]
	for i := range s.tweens {
		t := s.tweens[i]
		if !s.arena.Alive(t.Target) {
			continue
		}
		prev := t.Progress
		t.Progress += t.Step
		if t.Progress >= 1-progressEpsilon {
			t.Progress = 1
		}
		s.apply(&t, prev)
		if t.Progress < 1 {
			kept = append(kept, t)
		}
	}
	clear(s.tweens[len(kept):])
	s.tweens = kept
}

func (s *TweenSystem) apply(t *Tween, prev float64) {
	pos := s.posMap.Get(t.Target)
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	switch t.Kind {
	case AnchoredOffset:
		x, y := point(t.X, t.Y, 0, 0, ease(t.Progress))
		pos.X += x
		pos.Y += y
	case RelativeMove:
		x1, y1 := point(0, 0, t.X, t.Y, ease(prev))
		x2, y2 := point(0, 0, t.X, t.Y, ease(math.Min(1, t.Progress)))
		pos.X += x2 - x1
		pos.Y += y2 - y1
	case AbsoluteMove:
		pos.X, pos.Y = point(t.StartX, t.StartY, t.X, t.Y, ease(t.Progress))
	}
}
