package render

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyPalette is returned when no palette stop parses
var ErrEmptyPalette = errors.New("palette has no valid color stops")

// rampSize is the LUT resolution, age progress is quantized to 1/255
const rampSize = 256

// Ramp is a precomputed color gradient sampled by particle progress
// Interpolation runs in HCL so hue transitions stay bright through the middle
type Ramp struct {
	lut [rampSize]RGB
}

// NewRamp builds a ramp from hex stops ordered young to old
// Invalid stops are skipped; a single stop yields a flat ramp
func NewRamp(stops []string) (*Ramp, error) {
	colors := make([]colorful.Color, 0, len(stops))
	for _, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("ramp %v: %w", stops, ErrEmptyPalette)
	}

	r := &Ramp{}
	r.build(colors)
	return r, nil
}

func (r *Ramp) build(colors []colorful.Color) {
	if len(colors) == 1 {
		flat := FromColorful(colors[0])
		for i := range r.lut {
			r.lut[i] = flat
		}
		return
	}

	segments := float64(len(colors) - 1)
	for i := range r.lut {
		t := float64(i) / float64(rampSize-1) * segments
		seg := int(t)
		if seg >= len(colors)-1 {
			seg = len(colors) - 2
		}
		local := t - float64(seg)
		r.lut[i] = FromColorful(colors[seg].BlendHcl(colors[seg+1], local))
	}
}

// At samples the ramp at t in [0, 1], out-of-range t is clamped
func (r *Ramp) At(t float64) RGB {
	if t != t || t <= 0 {
		return r.lut[0]
	}
	if t >= 1 {
		return r.lut[rampSize-1]
	}
	return r.lut[int(t*float64(rampSize-1)+0.5)]
}
