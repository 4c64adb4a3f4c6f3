package render

import (
	"math"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
	"github.com/lixenwraith/sparkfx/vmath"
)

// Overlay is an ambient, non-particle layer drawn behind the particles
// Update runs in the tick and owns all state changes; Draw only reads
type Overlay interface {
	Update(dt float64, pointer vmath.Vec2, hasPointer bool, bounds vmath.Rect)
	Draw(s *Surface)
}

// NewOverlay returns the overlay selected by cfg.Overlay
func NewOverlay(cfg config.EffectConfig, rng *vmath.FastRand) Overlay {
	cfg = cfg.Resolve()
	switch cfg.Overlay {
	case config.OverlayAura:
		return NewAura(cfg.AuraRadius, MustHex(visual.AuraColor))
	case config.OverlayLightning:
		return NewLightning(cfg.LightningInterval.Seconds(), MustHex(visual.LightningColor), rng)
	default:
		return NoOverlay{}
	}
}

// NoOverlay draws nothing
type NoOverlay struct{}

func (NoOverlay) Update(float64, vmath.Vec2, bool, vmath.Rect) {}
func (NoOverlay) Draw(*Surface)                                {}

// Aura is a soft glow that follows the pointer and breathes slowly
// Without a pointer it rests at the viewport center
type Aura struct {
	radius float64
	color  RGB

	center  vmath.Vec2
	phase   float64
	visible bool
}

// NewAura creates an aura of the given radius in cells
func NewAura(radius float64, color RGB) *Aura {
	return &Aura{radius: radius, color: color}
}

func (a *Aura) Update(dt float64, pointer vmath.Vec2, hasPointer bool, bounds vmath.Rect) {
	if dt > 0 {
		a.phase = math.Mod(a.phase+dt*parameter.AuraPulseSpeed, 2*math.Pi)
	}
	switch {
	case hasPointer && pointer.Finite():
		a.center = pointer
		a.visible = true
	case !bounds.Empty():
		a.center = bounds.Center()
		a.visible = true
	default:
		a.visible = false
	}
}

// Radius returns the current pulsed radius
func (a *Aura) Radius() float64 {
	return a.radius * (1 + parameter.AuraPulseDepth*math.Sin(a.phase))
}

// Center returns the current aura center
func (a *Aura) Center() vmath.Vec2 {
	return a.center
}

func (a *Aura) Draw(s *Surface) {
	if !a.visible {
		return
	}
	drawGlow(s, a.center, a.Radius(), a.color, parameter.AuraStrength, s.ScreenGlow)
}
