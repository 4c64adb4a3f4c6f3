package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lixenwraith/sparkfx/parameter/visual"
)

// ErrUnknownPreset is returned for preset names not in the registry
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names
const (
	PresetCursorTrail    = "cursor-trail"
	PresetAura           = "aura"
	PresetFire           = "fire"
	PresetFireworks      = "fireworks"
	PresetComet          = "comet"
	PresetAsteroid       = "asteroid"
	PresetLightning      = "lightning"
	PresetLightningStorm = "lightning-storm"
)

// presets are partial configs layered over Default(), so only deltas are listed
var presets = map[string]func(c *EffectConfig){
	PresetCursorTrail: func(c *EffectConfig) {
		c.Mode = ModeContinuous
		c.SpawnRate = 3
		c.MaxParticles = 150
		c.Speed = Range{1, 4}
		c.Life = Range{0.4, 0.9}
		c.Gravity = -4
		c.Clear = ClearFade
		c.FadeAlpha = 0.35
		c.Core = true
		c.Layer = 30
	},
	PresetAura: func(c *EffectConfig) {
		c.Mode = ModeContinuous
		c.SpawnRate = 0.4
		c.MaxParticles = 40
		c.Speed = Range{0.5, 2}
		c.Life = Range{0.8, 1.6}
		c.Palette = visual.PaletteEmber
		c.Overlay = OverlayAura
		c.Layer = 0
	},
	PresetFire: func(c *EffectConfig) {
		c.Mode = ModeEdge
		c.SpawnRate = 2
		c.MaxParticles = 120
		c.Speed = Range{3, 7}
		c.Life = Range{1.5, 3}
		c.Gravity = -2
		c.Friction = 0.99
		c.Decay = 0.995
		c.Edges = []string{EdgeBottom}
		c.Palette = visual.PaletteEmber
		c.Layer = 5
	},
	PresetFireworks: func(c *EffectConfig) {
		c.Mode = ModeBurst
		c.RandomOrigin = true
		c.BurstSize = 60
		c.BurstInterval = 900 * time.Millisecond
		c.MaxParticles = 300
		c.Speed = Range{6, 18}
		c.Life = Range{1.0, 2.0}
		c.Gravity = 9
		c.Friction = 0.95
		c.Decay = 0.985
		c.Palette = visual.PaletteRainbow
		c.Clear = ClearFade
		c.FadeAlpha = 0.2
		c.Core = true
		c.Sound = true
		c.Layer = 10
	},
	PresetComet: func(c *EffectConfig) {
		c.Mode = ModeBurst
		c.BurstSize = 24
		c.BurstInterval = 400 * time.Millisecond
		c.MaxParticles = 200
		c.Speed = Range{2, 6}
		c.Life = Range{1.5, 2.5}
		c.Friction = 0.97
		c.Palette = visual.PaletteGold
		c.Clear = ClearFade
		c.FadeAlpha = 0.15
		c.Core = true
		c.Sound = true
		c.Layer = 20
	},
	PresetAsteroid: func(c *EffectConfig) {
		c.Mode = ModeEdge
		c.SpawnRate = 0.5
		c.MaxParticles = 60
		c.Speed = Range{10, 20}
		c.Life = Range{3, 5}
		c.Friction = 1
		c.Decay = 1
		c.Size = Range{1.5, 3.5}
		c.Edges = []string{EdgeTop, EdgeRight}
		c.Palette = visual.PaletteIce
		c.Clear = ClearFade
		c.FadeAlpha = 0.3
		c.Core = true
		c.Layer = 15
	},
	PresetLightning: func(c *EffectConfig) {
		c.Mode = ModeEdge
		c.SpawnRate = 0.2
		c.MaxParticles = 30
		c.Speed = Range{1, 3}
		c.Edges = []string{EdgeTop}
		c.Palette = visual.PaletteStorm
		c.Overlay = OverlayLightning
		c.LightningInterval = 2500 * time.Millisecond
		c.Layer = 2
	},
	PresetLightningStorm: func(c *EffectConfig) {
		c.Mode = ModeEdge
		c.SpawnRate = 0.6
		c.MaxParticles = 60
		c.Palette = visual.PaletteStorm
		c.Overlay = OverlayLightning
		c.LightningInterval = 900 * time.Millisecond
		c.Intensity = IntensityHigh
		c.Layer = 2
	},
}

// Preset returns the named preset layered over defaults, unresolved so callers may override fields
func Preset(name string) (EffectConfig, error) {
	apply, ok := presets[name]
	if !ok {
		return EffectConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	c := Default()
	c.Name = name
	apply(&c)
	return c, nil
}

// PresetNames returns registered preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
