package input

import (
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/vmath"
)

// State is the per-effect view of the environment, written by trackers and read by the tick
// Effects never share a State; all writes happen on the host event goroutine
type State struct {
	Width, Height int

	Pointer    vmath.Vec2
	HasPointer bool
}

// Bounds returns the viewport rectangle in cells
func (s *State) Bounds() vmath.Rect {
	return vmath.RectWH(float64(s.Width), float64(s.Height))
}

// PointerPos returns the pointer position at the cell center, if known
func (s *State) PointerPos() (vmath.Vec2, bool) {
	return s.Pointer, s.HasPointer
}

// setSize records a viewport size, falling back to defaults when the host reports none
func (s *State) setSize(w, h int) {
	if w <= 0 || h <= 0 {
		w, h = parameter.DefaultWidth, parameter.DefaultHeight
	}
	s.Width, s.Height = w, h
}

func (s *State) setPointer(x, y int) {
	s.Pointer = vmath.V2(float64(x)+0.5, float64(y)+0.5)
	s.HasPointer = true
}

func (s *State) clearPointer() {
	s.HasPointer = false
}
