package parameter

import "time"

// Audio output
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioMaxVoices caps concurrently sounding crackles; further bursts are dropped
	AudioMaxVoices = 4
)

// Burst crackle
const (
	CrackleDuration = 300 * time.Millisecond
	CrackleDecay    = 8.0  // exponential envelope rate per second
	CrackleRumbleHz = 80.0 // low sine under the noise
	CrackleNoiseMix = 0.25
	CrackleRumble   = 0.3

	// Crackle volume in beep's base-2 scale: quietest for a single particle, loudest at CrackleFullBurst
	CrackleMinVolume = -3.0
	CrackleMaxVolume = 0.0
	CrackleFullBurst = 64
)
