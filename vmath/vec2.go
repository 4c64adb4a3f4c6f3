package vmath

import (
	"math"
)

// Vec2 is a float64 2D vector in cell units
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Finite reports whether both components are neither NaN nor Inf
func (v Vec2) Finite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// SafeNormalize returns the unit vector of v
// Zero-length or non-finite input returns fallback, which is itself normalized (UnitX if degenerate)
func SafeNormalize(v, fallback Vec2) Vec2 {
	mag := v.Len()
	if mag < Epsilon || !IsFinite(mag) {
		fm := fallback.Len()
		if fm < Epsilon || !IsFinite(fm) {
			return UnitX
		}
		return fallback.Scale(1 / fm)
	}
	return v.Scale(1 / mag)
}

// FromAngle returns a vector of length mag pointing at angle (radians)
func FromAngle(angle, mag float64) Vec2 {
	return Vec2{math.Cos(angle) * mag, math.Sin(angle) * mag}
}

// Perpendicular returns vector rotated 90° counter-clockwise
func (v Vec2) Perpendicular() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Rect is an axis-aligned region in cell units, Max exclusive
type Rect struct {
	Min, Max Vec2
}

// RectWH returns a rect anchored at origin with the given size
func RectWH(w, h float64) Rect {
	return Rect{Max: Vec2{w, h}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Empty reports a rect with no area
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains tests p against r grown by margin on every side
func (r Rect) Contains(p Vec2, margin float64) bool {
	return p.X >= r.Min.X-margin && p.X < r.Max.X+margin &&
		p.Y >= r.Min.Y-margin && p.Y < r.Max.Y+margin
}

// Edge identifies one side of a Rect
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// EdgePoint returns the point at fraction t ∈ [0,1] along edge e
func (r Rect) EdgePoint(e Edge, t float64) Vec2 {
	t = Clamp(t, 0, 1)
	switch e {
	case EdgeTop:
		return Vec2{r.Min.X + t*r.Width(), r.Min.Y}
	case EdgeRight:
		return Vec2{r.Max.X, r.Min.Y + t*r.Height()}
	case EdgeBottom:
		return Vec2{r.Min.X + t*r.Width(), r.Max.Y}
	default:
		return Vec2{r.Min.X, r.Min.Y + t*r.Height()}
	}
}
