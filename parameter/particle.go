package parameter

import "time"

// Effect defaults, applied when a config field is omitted
const (
	DefaultMaxParticles = 150
	DefaultSpawnRate    = 2.0
	DefaultDecay        = 0.98
	DefaultFriction     = 0.96
	DefaultGravity      = 0.0

	DefaultSpeedMin = 2.0
	DefaultSpeedMax = 8.0
	DefaultLifeMin  = 0.6
	DefaultLifeMax  = 1.4
	DefaultSizeMin  = 1.0
	DefaultSizeMax  = 2.5

	DefaultBurstSize     = 40
	DefaultBurstInterval = 1200 * time.Millisecond

	DefaultFadeAlpha = 0.25

	DefaultAuraRadius        = 10.0
	DefaultLightningInterval = 2 * time.Second
)

// Intensity multipliers, applied once at resolve time to MaxParticles and SpawnRate
const (
	IntensityLowFactor    = 0.5
	IntensityMediumFactor = 1.0
	IntensityHighFactor   = 1.5
)

// Particle physics
const (
	// MinOpacity is the visibility floor below which a particle counts as expired
	MinOpacity = 0.01

	// SpawnJitter is the radius (cells) around a continuous origin that new particles scatter in
	SpawnJitter = 1.0

	// BoundsMargin is how far (cells) outside the viewport a particle may drift before retirement
	BoundsMargin = 4.0

	// EdgeInwardJitter is the angular spread (radians) of edge-spawned velocity around the inward normal
	EdgeInwardJitter = 0.6

	// BurstUpperFraction limits random burst origins to the upper part of the viewport
	BurstUpperFraction = 0.66
)
