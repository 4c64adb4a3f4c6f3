// Package particle holds the per-particle simulation state and its update rule.
package particle

import (
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/vmath"
)

// Particle is a single simulated point, owned by exactly one emitter's live set
// Age and MaxAge are seconds; Pos, Vel and Size are cells and cells/second
type Particle struct {
	Pos vmath.Vec2
	Vel vmath.Vec2

	Age    float64
	MaxAge float64
	Size   float64

	// Alpha decays by Decay per reference frame, independent of age
	Alpha float64
	Decay float64

	// Friction damps velocity per reference frame, Gravity accelerates Vel.Y in cells/s²
	Friction float64
	Gravity  float64

	// Tint shifts the palette lookup so siblings from one burst do not share a color
	Tint float64
}

// Advance integrates one step of dt seconds
// Per-frame factors are normalized to the reference rate, dt <= 0 or non-finite is a no-op
func (p *Particle) Advance(dt float64) {
	if dt <= 0 || !vmath.IsFinite(dt) {
		return
	}
	k := dt * parameter.ReferenceFrameRate

	p.Vel = p.Vel.Scale(vmath.PowFrames(p.Friction, k))
	p.Vel.Y += p.Gravity * dt
	if !p.Vel.Finite() {
		p.Vel = vmath.Vec2{}
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Alpha *= vmath.PowFrames(p.Decay, k)
	p.Age += dt
}

// Progress returns Age/MaxAge in [0, 1]
func (p *Particle) Progress() float64 {
	if p.MaxAge <= 0 {
		return 1
	}
	return vmath.Clamp(p.Age/p.MaxAge, 0, 1)
}

// Opacity combines alpha decay with linear age fade
func (p *Particle) Opacity() float64 {
	return vmath.Clamp(p.Alpha, 0, 1) * (1 - p.Progress())
}

// Expired reports end of life: age reached MaxAge or opacity fell below visibility
func (p *Particle) Expired() bool {
	return p.Age >= p.MaxAge || p.Opacity() <= parameter.MinOpacity
}
