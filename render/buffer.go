package render

// Cell is one terminal cell of a layer
// Rune 0 means no glyph; Bg black means no light contribution
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// Surface is a row-major cell buffer, the drawing target of one effect layer
// Writes outside the surface are clipped
type Surface struct {
	cells  []Cell
	width  int
	height int
}

// NewSurface creates a transparent surface, negative dimensions are treated as 0
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Resize adjusts dimensions, reallocates only if capacity insufficient, and clears
func (s *Surface) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	size := width * height
	if cap(s.cells) < size {
		s.cells = make([]Cell, size)
	} else {
		s.cells = s.cells[:size]
	}
	s.width = width
	s.height = height
	s.Clear()
}

// Width returns the column count
func (s *Surface) Width() int { return s.width }

// Height returns the row count
func (s *Surface) Height() int { return s.height }

// Cells exposes the backing row-major slice for compositing, callers must not retain it across Resize
func (s *Surface) Cells() []Cell { return s.cells }

// At returns the cell at x, y
func (s *Surface) At(x, y int) (Cell, bool) {
	if !s.inBounds(x, y) {
		return Cell{}, false
	}
	return s.cells[y*s.width+x], true
}

// Clear resets all cells to transparent using exponential copy
func (s *Surface) Clear() {
	if len(s.cells) == 0 {
		return
	}
	s.cells[0] = Cell{}
	for filled := 1; filled < len(s.cells); filled *= 2 {
		copy(s.cells[filled:], s.cells[:filled])
	}
}

// Fade darkens every cell toward transparent by alpha, leaving trails of the previous frames
// Glyphs whose color drops below visibility are removed
func (s *Surface) Fade(alpha float64) {
	if alpha >= 1 {
		s.Clear()
		return
	}
	if alpha <= 0 {
		return
	}
	keep := 1 - alpha
	for i := range s.cells {
		c := &s.cells[i]
		c.Bg = Scale(c.Bg, keep)
		if c.Rune != 0 {
			c.Fg = Scale(c.Fg, keep)
			if c.Fg.Luma() < fadeGlyphLuma {
				c.Rune = 0
				c.Fg = RGBBlack
			}
		}
	}
}

// fadeGlyphLuma is the luma under which a fading glyph is dropped
const fadeGlyphLuma = 12

// inBounds returns true if in surface bounds
func (s *Surface) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// AddGlow adds light to the cell background
func (s *Surface) AddGlow(x, y int, c RGB, alpha float64) {
	if !s.inBounds(x, y) {
		return
	}
	dst := &s.cells[y*s.width+x]
	dst.Bg = Add(dst.Bg, c, alpha)
}

// ScreenGlow lightens the cell background with a screen blend
// Softer than AddGlow for large ambient areas
func (s *Surface) ScreenGlow(x, y int, c RGB, alpha float64) {
	if !s.inBounds(x, y) {
		return
	}
	dst := &s.cells[y*s.width+x]
	dst.Bg = Screen(dst.Bg, c, alpha)
}

// SetRune writes a glyph and its color, preserving the background
func (s *Surface) SetRune(x, y int, r rune, fg RGB) {
	if !s.inBounds(x, y) {
		return
	}
	dst := &s.cells[y*s.width+x]
	dst.Rune = r
	dst.Fg = fg
}

// Lit counts cells carrying any light or glyph
func (s *Surface) Lit() int {
	n := 0
	for i := range s.cells {
		if s.cells[i].Rune != 0 || !s.cells[i].Bg.IsBlack() {
			n++
		}
	}
	return n
}
