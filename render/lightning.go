package render

import (
	"math"

	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
	"github.com/lixenwraith/sparkfx/vmath"
)

// SubPoint is a path vertex in sub-cell space (2x resolution on both axes)
type SubPoint struct {
	X, Y int
}

// cellKey addresses a surface cell in the hit map
type cellKey struct {
	X, Y int
}

// Lightning periodically strikes a jagged bolt from the top edge into the viewport
// The path is generated once per strike and fades out over parameter.LightningLife
type Lightning struct {
	rng      *vmath.FastRand
	interval float64
	color    RGB

	timer  float64
	life   float64
	struck bool

	points []SubPoint
	hits   map[cellKey]uint8
}

// NewLightning creates a lightning overlay striking every interval seconds
func NewLightning(interval float64, color RGB, rng *vmath.FastRand) *Lightning {
	if rng == nil {
		rng = vmath.NewFastRand(1)
	}
	if interval <= 0 {
		interval = parameter.DefaultLightningInterval.Seconds()
	}
	return &Lightning{
		rng:      rng,
		interval: interval,
		color:    color,
		hits:     make(map[cellKey]uint8),
	}
}

// Update ages the current bolt and strikes a new one when the interval elapses
// The first update with a usable viewport strikes immediately
func (l *Lightning) Update(dt float64, _ vmath.Vec2, _ bool, bounds vmath.Rect) {
	if dt > 0 {
		l.timer += dt
		l.life = math.Max(0, l.life-dt)
	}
	if bounds.Width() < 1 || bounds.Height() < 1 {
		return
	}
	if !l.struck || l.timer >= l.interval {
		l.timer = 0
		l.strike(bounds)
	}
}

// Alpha returns the current bolt visibility in [0, 1]
func (l *Lightning) Alpha() float64 {
	return vmath.Clamp(l.life/parameter.LightningLife, 0, 1)
}

// Path returns the current bolt vertices in sub-cell coordinates
func (l *Lightning) Path() []SubPoint {
	return l.points
}

func (l *Lightning) strike(bounds vmath.Rect) {
	w, h := bounds.Width(), bounds.Height()
	ox := bounds.Min.X + l.rng.Float64()*w
	oy := bounds.Min.Y
	tx := vmath.Clamp(ox+l.rng.Signed()*w*parameter.LightningReach, bounds.Min.X, bounds.Max.X-1)
	ty := bounds.Min.Y + h*l.rng.Range(0.5, 1) - 1

	l.points = l.generateFractalPath(int(ox), int(oy), int(tx), int(math.Max(ty, oy)))
	clear(l.hits)
	for i := 0; i < len(l.points)-1; i++ {
		traceQuadrants(l.hits, l.points[i], l.points[i+1])
	}
	l.life = parameter.LightningLife
	l.struck = true
}

// generateFractalPath creates a jagged path using midpoint displacement
// A sine envelope keeps the endpoints anchored and a coherent spine bows the whole bolt
func (l *Lightning) generateFractalPath(x1, y1, x2, y2 int) []SubPoint {
	start := vmath.V2(float64(x1*2), float64(y1*2))
	end := vmath.V2(float64(x2*2), float64(y2*2))
	delta := end.Sub(start)

	dist := delta.Len()
	if dist < 1 {
		return []SubPoint{{x1 * 2, y1 * 2}, {x2 * 2, y2 * 2}}
	}

	segments := int(dist / parameter.LightningSegmentLen)
	segments = max(parameter.LightningMinSegments, min(parameter.LightningMaxSegments, segments))

	perp := delta.Scale(1 / dist).Perpendicular()

	// Octave 1: one offset for the whole path
	spine := l.rng.Signed() * parameter.LightningSpine

	points := make([]SubPoint, 0, segments+1)
	points = append(points, SubPoint{x1 * 2, y1 * 2})

	for i := 1; i < segments; i++ {
		t := float64(i) / float64(segments)
		base := vmath.V2(vmath.Lerp(start.X, end.X, t), vmath.Lerp(start.Y, end.Y, t))

		envelope := math.Max(math.Sin(t*math.Pi), parameter.LightningEnvelopeFloor)
		spineEnvelope := math.Max(4*t*(1-t), parameter.LightningEnvelopeFloor)

		// Octave 2: per-segment detail
		detail := l.rng.Signed() * parameter.LightningDetail * envelope
		jitter := spine*spineEnvelope + detail

		p := base.Add(perp.Scale(jitter))
		points = append(points, SubPoint{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))})
	}

	points = append(points, SubPoint{x2 * 2, y2 * 2})
	return points
}

// traceQuadrants traces a sub-cell line with Bresenham, accumulating quadrant hits per cell
// Quadrant bitmap: bit0=UL, bit1=UR, bit2=LL, bit3=LR
func traceQuadrants(hits map[cellKey]uint8, a, b SubPoint) {
	sx0, sy0, sx1, sy1 := a.X, a.Y, b.X, b.Y

	dx := sx1 - sx0
	if dx < 0 {
		dx = -dx
	}
	dy := sy1 - sy0
	if dy < 0 {
		dy = -dy
	}

	stepX := -1
	if sx0 < sx1 {
		stepX = 1
	}
	stepY := -1
	if sy0 < sy1 {
		stepY = 1
	}

	err := dx - dy
	for {
		if sx0 >= 0 && sy0 >= 0 {
			qx, qy := sx0&1, sy0&1
			hits[cellKey{sx0 / 2, sy0 / 2}] |= uint8(1 << (qy*2 + qx))
		}

		if sx0 == sx1 && sy0 == sy1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			sx0 += stepX
		}
		if e2 < dx {
			err += dx
			sy0 += stepY
		}
	}
}

func (l *Lightning) Draw(s *Surface) {
	alpha := l.Alpha()
	if alpha < parameter.GlowCutoff {
		return
	}
	fg := Scale(l.color, alpha)
	for key, bits := range l.hits {
		char := visual.QuadrantChars[bits]
		if char == ' ' {
			continue
		}
		s.AddGlow(key.X, key.Y, l.color, alpha*parameter.LightningGlow)
		s.SetRune(key.X, key.Y, char, fg)
	}
}
