package emitter

import (
	"math"
	"time"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/vmath"
)

// policy decides when and where particles appear
type policy interface {
	spawn(dt float64, origin vmath.Vec2, hasOrigin bool, bounds vmath.Rect)
}

// continuousPolicy emits SpawnRate particles per tick around a moving origin
type continuousPolicy struct {
	e *Emitter
}

func (p *continuousPolicy) spawn(_ float64, origin vmath.Vec2, hasOrigin bool, _ vmath.Rect) {
	if !hasOrigin {
		return
	}
	e := p.e
	for range e.takeSpawnCount() {
		angle := e.rng.Angle()
		jitter := vmath.FromAngle(e.rng.Angle(), e.rng.Float64()*parameter.SpawnJitter)
		e.emit(origin.Add(jitter), vmath.FromAngle(angle, 1), e.rng.Float64())
	}
}

// burstPolicy emits BurstSize radial particles every BurstInterval
type burstPolicy struct {
	e *Emitter
}

func (p *burstPolicy) spawn(dt float64, origin vmath.Vec2, hasOrigin bool, bounds vmath.Rect) {
	e := p.e
	interval := e.cfg.BurstInterval
	e.burstAccum += time.Duration(math.Round(dt * float64(time.Second)))
	if e.burstAccum < interval {
		return
	}
	// Carry the overshoot so the cadence holds; a long stall still fires one burst, not a backlog
	e.burstAccum %= interval

	if e.cfg.RandomOrigin || !hasOrigin {
		if bounds.Empty() {
			return
		}
		origin = vmath.V2(
			e.rng.Range(bounds.Min.X, bounds.Max.X),
			bounds.Min.Y+e.rng.Float64()*bounds.Height()*parameter.BurstUpperFraction,
		)
	}

	n := e.cfg.BurstSize
	tint := e.rng.Float64()
	step := 2 * math.Pi / float64(n)
	for i := range n {
		// Even ring with slight angular noise reads as a firework shell
		angle := float64(i)*step + e.rng.Signed()*step*0.5
		e.emit(origin, vmath.FromAngle(angle, 1), tint)
	}

	if e.onBurst != nil {
		e.onBurst(origin, n)
	}
}

// edgePolicy emits SpawnRate particles per tick on the viewport boundary, heading inward
type edgePolicy struct {
	e     *Emitter
	edges []vmath.Edge
}

func (p *edgePolicy) spawn(_ float64, _ vmath.Vec2, _ bool, bounds vmath.Rect) {
	if bounds.Empty() || len(p.edges) == 0 {
		return
	}
	e := p.e
	center := bounds.Center()
	for range e.takeSpawnCount() {
		edge := p.edges[e.rng.Intn(len(p.edges))]
		pos := bounds.EdgePoint(edge, e.rng.Float64())

		// Edge normal dominates; the pull toward center keeps corners from grazing along the edge
		normal := inwardNormal(edge)
		toCenter := vmath.SafeNormalize(center.Sub(pos), normal)
		inward := vmath.SafeNormalize(normal.Add(toCenter.Scale(0.5)), normal)
		dir := rotate(inward, e.rng.Signed()*parameter.EdgeInwardJitter)
		e.emit(pos, dir, e.rng.Float64())
	}
}

func inwardNormal(edge vmath.Edge) vmath.Vec2 {
	switch edge {
	case vmath.EdgeTop:
		return vmath.V2(0, 1)
	case vmath.EdgeRight:
		return vmath.V2(-1, 0)
	case vmath.EdgeBottom:
		return vmath.V2(0, -1)
	default:
		return vmath.V2(1, 0)
	}
}

func rotate(v vmath.Vec2, angle float64) vmath.Vec2 {
	r := vmath.FromAngle(angle, 1)
	return vmath.V2(v.X*r.X-v.Y*r.Y, v.X*r.Y+v.Y*r.X)
}

func edgeSet(names []string) []vmath.Edge {
	out := make([]vmath.Edge, 0, len(names))
	for _, n := range names {
		switch n {
		case config.EdgeTop:
			out = append(out, vmath.EdgeTop)
		case config.EdgeRight:
			out = append(out, vmath.EdgeRight)
		case config.EdgeBottom:
			out = append(out, vmath.EdgeBottom)
		case config.EdgeLeft:
			out = append(out, vmath.EdgeLeft)
		}
	}
	return out
}
