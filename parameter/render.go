package parameter

// Glow shaping
const (
	// GlowCutoff skips cells whose contribution would round to nothing
	GlowCutoff = 0.01

	// CoreOpacity is the minimum opacity at which a particle draws its bright core glyph
	CoreOpacity = 0.35

	// CoreRune and SparkRune are the glyphs for bright and dim particle cores
	CoreRune  = '✦'
	SparkRune = '·'

	// CoreWhiten lerps the core glyph color toward white
	CoreWhiten = 0.6

	// MinGlowRadius keeps small particles lighting their own cell wherever they sit inside it
	MinGlowRadius = 1.5

	// TintSpread is the share of the palette lookup driven by per-particle tint instead of age
	TintSpread = 0.2
)

// Aura overlay
const (
	AuraPulseSpeed = 1.6
	AuraPulseDepth = 0.15
	AuraStrength   = 0.55
)

// Lightning overlay
const (
	// LightningLife is the bolt visibility duration in seconds
	LightningLife = 0.45

	// LightningSegmentLen is sub-cell distance per path segment
	LightningSegmentLen  = 10.0
	LightningMinSegments = 4
	LightningMaxSegments = 48

	// LightningSpine and LightningDetail are sub-cell displacement magnitudes of the two jitter octaves
	LightningSpine  = 4.0
	LightningDetail = 6.0

	// LightningEnvelopeFloor keeps endpoints from freezing
	LightningEnvelopeFloor = 0.15

	// LightningGlow is the background light under bolt glyphs at full alpha
	LightningGlow = 0.2

	// LightningReach is the horizontal wander of the strike target as a fraction of width
	LightningReach = 0.33
)
