// Package config defines the typed effect configuration, the built-in presets and
// the application config loaded through viper.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
)

// Mode selects the emitter spawn policy
type Mode string

const (
	ModeContinuous Mode = "continuous"
	ModeBurst      Mode = "burst"
	ModeEdge       Mode = "edge"
)

// Intensity scales particle population and spawn rate
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Factor returns the population multiplier, unknown values count as medium
func (i Intensity) Factor() float64 {
	switch i {
	case IntensityLow:
		return parameter.IntensityLowFactor
	case IntensityHigh:
		return parameter.IntensityHighFactor
	default:
		return parameter.IntensityMediumFactor
	}
}

// ClearMode selects how a layer is wiped before each frame
type ClearMode string

const (
	// ClearHard wipes the layer every frame
	ClearHard ClearMode = "clear"
	// ClearFade blends the layer toward transparent, leaving motion trails
	ClearFade ClearMode = "fade"
)

// OverlayKind selects the ambient non-particle layer
type OverlayKind string

const (
	OverlayNone      OverlayKind = "none"
	OverlayAura      OverlayKind = "aura"
	OverlayLightning OverlayKind = "lightning"
)

// Range is an inclusive-exclusive [Min, Max) interval sampled per particle
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

func (r Range) unset() bool {
	return r.Min <= 0 && r.Max <= 0
}

func (r Range) ordered() Range {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// EffectConfig is the parameter set of one mounted effect
// Zero-valued fields mean "use default"; Resolve fills them once at mount and the result is never mutated
type EffectConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	MaxParticles int       `mapstructure:"max_particles" yaml:"max_particles"`
	SpawnRate    float64   `mapstructure:"spawn_rate" yaml:"spawn_rate"`
	Decay        float64   `mapstructure:"decay" yaml:"decay"`
	Friction     float64   `mapstructure:"friction" yaml:"friction"`
	Gravity      float64   `mapstructure:"gravity" yaml:"gravity"`
	Palette      []string  `mapstructure:"palette" yaml:"palette"`
	Mode         Mode      `mapstructure:"mode" yaml:"mode"`
	Intensity    Intensity `mapstructure:"intensity" yaml:"intensity"`

	Speed Range `mapstructure:"speed" yaml:"speed"`
	Life  Range `mapstructure:"life" yaml:"life"`
	Size  Range `mapstructure:"size" yaml:"size"`

	BurstSize     int           `mapstructure:"burst_size" yaml:"burst_size"`
	BurstInterval time.Duration `mapstructure:"burst_interval" yaml:"burst_interval"`
	RandomOrigin  bool          `mapstructure:"random_origin" yaml:"random_origin"`
	Edges         []string      `mapstructure:"edges" yaml:"edges"`

	Clear     ClearMode `mapstructure:"clear" yaml:"clear"`
	FadeAlpha float64   `mapstructure:"fade_alpha" yaml:"fade_alpha"`

	Overlay           OverlayKind   `mapstructure:"overlay" yaml:"overlay"`
	AuraRadius        float64       `mapstructure:"aura_radius" yaml:"aura_radius"`
	LightningInterval time.Duration `mapstructure:"lightning_interval" yaml:"lightning_interval"`

	Core     bool   `mapstructure:"core" yaml:"core"`
	Layer    int    `mapstructure:"layer" yaml:"layer"`
	Sound    bool   `mapstructure:"sound" yaml:"sound"`
	Disabled bool   `mapstructure:"disabled" yaml:"disabled"`
	Seed     uint64 `mapstructure:"seed" yaml:"seed"`

	resolved bool
}

// Default returns an unresolved config carrying every documented default
func Default() EffectConfig {
	return EffectConfig{
		MaxParticles:      parameter.DefaultMaxParticles,
		SpawnRate:         parameter.DefaultSpawnRate,
		Decay:             parameter.DefaultDecay,
		Friction:          parameter.DefaultFriction,
		Gravity:           parameter.DefaultGravity,
		Palette:           visual.Palettes[visual.DefaultPalette],
		Mode:              ModeContinuous,
		Intensity:         IntensityMedium,
		Speed:             Range{parameter.DefaultSpeedMin, parameter.DefaultSpeedMax},
		Life:              Range{parameter.DefaultLifeMin, parameter.DefaultLifeMax},
		Size:              Range{parameter.DefaultSizeMin, parameter.DefaultSizeMax},
		BurstSize:         parameter.DefaultBurstSize,
		BurstInterval:     parameter.DefaultBurstInterval,
		Clear:             ClearHard,
		FadeAlpha:         parameter.DefaultFadeAlpha,
		Overlay:           OverlayNone,
		AuraRadius:        parameter.DefaultAuraRadius,
		LightningInterval: parameter.DefaultLightningInterval,
	}
}

// Enabled reports whether the effect should render at all
func (c EffectConfig) Enabled() bool {
	return !c.Disabled
}

// Resolved reports whether Resolve has already been applied
func (c EffectConfig) Resolved() bool {
	return c.resolved
}

// Resolve fills omitted fields with defaults, clamps out-of-range values and applies the intensity factor
// Idempotent: resolving a resolved config returns it unchanged
func (c EffectConfig) Resolve() EffectConfig {
	if c.resolved {
		return c
	}
	d := Default()

	if c.MaxParticles <= 0 {
		c.MaxParticles = d.MaxParticles
	}
	if c.SpawnRate < 0 || math.IsNaN(c.SpawnRate) || math.IsInf(c.SpawnRate, 0) {
		c.SpawnRate = 0
	}
	c.Decay = unitOrDefault(c.Decay, d.Decay)
	c.Friction = unitOrDefault(c.Friction, d.Friction)
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		c.Gravity = 0
	}
	c.Palette = resolvePalette(c.Palette)

	switch c.Mode {
	case ModeContinuous, ModeBurst, ModeEdge:
	default:
		c.Mode = d.Mode
	}
	switch c.Intensity {
	case IntensityLow, IntensityMedium, IntensityHigh:
	default:
		c.Intensity = d.Intensity
	}

	if c.Speed.unset() {
		c.Speed = d.Speed
	}
	c.Speed = c.Speed.ordered()
	if c.Life.unset() {
		c.Life = d.Life
	}
	c.Life = c.Life.ordered()
	if c.Life.Min <= 0 {
		c.Life.Min = math.Min(d.Life.Min, c.Life.Max)
	}
	if c.Size.unset() {
		c.Size = d.Size
	}
	c.Size = c.Size.ordered()

	c.Edges = resolveEdges(c.Edges)

	if c.BurstSize <= 0 {
		c.BurstSize = d.BurstSize
	}
	if c.BurstInterval <= 0 {
		c.BurstInterval = d.BurstInterval
	}

	switch c.Clear {
	case ClearHard, ClearFade:
	default:
		c.Clear = d.Clear
	}
	c.FadeAlpha = unitOrDefault(c.FadeAlpha, d.FadeAlpha)

	switch c.Overlay {
	case OverlayNone, OverlayAura, OverlayLightning:
	default:
		c.Overlay = d.Overlay
	}
	if c.AuraRadius <= 0 {
		c.AuraRadius = d.AuraRadius
	}
	if c.LightningInterval <= 0 {
		c.LightningInterval = d.LightningInterval
	}

	// Intensity applies last so it scales the resolved values
	f := c.Intensity.Factor()
	c.MaxParticles = max(1, int(math.Round(float64(c.MaxParticles)*f)))
	c.SpawnRate *= f
	c.BurstSize = max(1, int(math.Round(float64(c.BurstSize)*f)))

	c.resolved = true
	return c
}

// Validate reports values a user most likely did not mean, Resolve repairs them regardless
func (c EffectConfig) Validate() error {
	if c.MaxParticles < 0 {
		return fmt.Errorf("max_particles must be positive, got %d", c.MaxParticles)
	}
	if c.SpawnRate < 0 {
		return fmt.Errorf("spawn_rate must not be negative, got %g", c.SpawnRate)
	}
	if c.Decay < 0 || c.Decay > 1 {
		return fmt.Errorf("decay must be in (0,1], got %g", c.Decay)
	}
	if c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("friction must be in (0,1], got %g", c.Friction)
	}
	if c.Mode != "" && c.Mode != ModeContinuous && c.Mode != ModeBurst && c.Mode != ModeEdge {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Intensity != "" && c.Intensity != IntensityLow && c.Intensity != IntensityMedium && c.Intensity != IntensityHigh {
		return fmt.Errorf("unknown intensity %q", c.Intensity)
	}
	for _, stop := range c.Palette {
		if _, ok := visual.Palettes[stop]; ok {
			continue
		}
		if !validHex(stop) {
			return fmt.Errorf("invalid palette stop %q", stop)
		}
	}
	return nil
}

// Edge names accepted by the edges field
const (
	EdgeTop    = "top"
	EdgeRight  = "right"
	EdgeBottom = "bottom"
	EdgeLeft   = "left"
)

var allEdges = []string{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}

func resolveEdges(edges []string) []string {
	out := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		switch e {
		case EdgeTop, EdgeRight, EdgeBottom, EdgeLeft:
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, allEdges...)
	}
	return out
}

// UsesPointer reports whether the effect needs pointer tracking
func (c EffectConfig) UsesPointer() bool {
	return c.Mode == ModeContinuous || (c.Mode == ModeBurst && !c.RandomOrigin) || c.Overlay == OverlayAura
}

func unitOrDefault(v, def float64) float64 {
	if v <= 0 || v != v {
		return def
	}
	if v > 1 {
		return 1
	}
	return v
}

// resolvePalette expands named palettes and drops invalid hex stops
// A single named entry ("ice") expands in place; an empty result falls back to the default palette
func resolvePalette(stops []string) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		if named, ok := visual.Palettes[s]; ok {
			out = append(out, named...)
			continue
		}
		if validHex(s) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, visual.Palettes[visual.DefaultPalette]...)
	}
	return out
}

func validHex(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}
