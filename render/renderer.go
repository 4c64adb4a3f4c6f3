package render

import (
	"fmt"
	"math"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/particle"
	"github.com/lixenwraith/sparkfx/vmath"
)

// Renderer draws one effect's particles and overlay into its surface
// Stateless between frames except for the surface contents left by fade mode
type Renderer struct {
	ramp      *Ramp
	clear     config.ClearMode
	fadeAlpha float64
	core      bool
}

// NewRenderer builds the palette ramp for cfg
func NewRenderer(cfg config.EffectConfig) (*Renderer, error) {
	cfg = cfg.Resolve()
	ramp, err := NewRamp(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	return &Renderer{
		ramp:      ramp,
		clear:     cfg.Clear,
		fadeAlpha: cfg.FadeAlpha,
		core:      cfg.Core,
	}, nil
}

// DrawFrame prepares the surface, draws the overlay behind the particles, then each particle glow
// particles is read only
func (r *Renderer) DrawFrame(s *Surface, particles []particle.Particle, overlay Overlay) {
	if r.clear == config.ClearFade {
		s.Fade(r.fadeAlpha)
	} else {
		s.Clear()
	}

	if overlay != nil {
		overlay.Draw(s)
	}

	for i := range particles {
		r.drawParticle(s, &particles[i])
	}
}

// drawParticle renders a radial glow with quadratic falloff
// Vertical distance is scaled by the cell aspect ratio so the glow reads as a circle
func (r *Renderer) drawParticle(s *Surface, p *particle.Particle) {
	opacity := p.Opacity()
	if opacity < parameter.GlowCutoff || !p.Pos.Finite() {
		return
	}

	t := p.Progress()*(1-parameter.TintSpread) + p.Tint*parameter.TintSpread
	color := r.ramp.At(t)

	radius := math.Max(p.Size, parameter.MinGlowRadius)
	drawGlow(s, p.Pos, radius, color, opacity, s.AddGlow)

	if !r.core {
		return
	}
	cx, cy := int(math.Floor(p.Pos.X)), int(math.Floor(p.Pos.Y))
	if opacity >= parameter.CoreOpacity {
		s.SetRune(cx, cy, parameter.CoreRune, Lerp(color, RGBWhite, parameter.CoreWhiten))
	} else {
		s.SetRune(cx, cy, parameter.SparkRune, Scale(color, opacity/parameter.CoreOpacity))
	}
}

// glowFunc is a surface light write, AddGlow or ScreenGlow
type glowFunc func(x, y int, c RGB, alpha float64)

// drawGlow walks the aspect-corrected bounding box of a circle of radius cells around center
func drawGlow(s *Surface, center vmath.Vec2, radius float64, color RGB, strength float64, write glowFunc) {
	if radius <= 0 || strength <= 0 {
		return
	}
	rows := radius / parameter.AspectRatio

	x0 := max(0, int(math.Floor(center.X-radius)))
	x1 := min(s.Width()-1, int(math.Floor(center.X+radius)))
	y0 := max(0, int(math.Floor(center.Y-rows)))
	y1 := min(s.Height()-1, int(math.Floor(center.Y+rows)))

	invR := 1 / radius
	for y := y0; y <= y1; y++ {
		dy := (float64(y) + 0.5 - center.Y) * parameter.AspectRatio
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - center.X
			d := math.Sqrt(dx*dx+dy*dy) * invR
			if d >= 1 {
				continue
			}
			falloff := (1 - d) * (1 - d) * strength
			if falloff < parameter.GlowCutoff {
				continue
			}
			write(x, y, color, falloff)
		}
	}
}
