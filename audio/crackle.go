// Package audio plays the crackle cue that accompanies particle bursts.
package audio

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/sparkfx/parameter"
)

// crackle is low-passed noise over a low rumble with an exponential decay envelope
type crackle struct {
	sr    beep.SampleRate
	pos   int
	total int
	seed  uint32
	prev  float64
}

// newCrackle returns a finite crackle streamer; seed varies the noise between bursts
func newCrackle(sr beep.SampleRate, seed uint32) *crackle {
	if seed == 0 {
		seed = 1
	}
	return &crackle{
		sr:    sr,
		total: sr.N(parameter.CrackleDuration),
		seed:  seed,
	}
}

func (c *crackle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.total {
			return i, i > 0
		}
		t := float64(c.pos) / float64(c.sr)
		envelope := math.Exp(-t * parameter.CrackleDecay)

		// LCG noise, one-pole low-pass for the crackle texture
		c.seed = c.seed*1103515245 + 12345
		noise := float64(c.seed>>1)/float64(math.MaxUint32>>1)*2 - 1
		c.prev += 0.5 * (noise - c.prev)

		rumble := parameter.CrackleRumble * math.Sin(2*math.Pi*parameter.CrackleRumbleHz*t)
		sample := envelope * (parameter.CrackleNoiseMix*c.prev + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		c.pos++
	}
	return len(samples), true
}

func (c *crackle) Err() error { return nil }

// burstVolume maps a burst size onto beep's base-2 volume scale, louder for bigger bursts
func burstVolume(n int) float64 {
	if n <= 1 {
		return parameter.CrackleMinVolume
	}
	t := math.Log2(float64(n)) / math.Log2(parameter.CrackleFullBurst)
	t = min(t, 1)
	return parameter.CrackleMinVolume + t*(parameter.CrackleMaxVolume-parameter.CrackleMinVolume)
}
