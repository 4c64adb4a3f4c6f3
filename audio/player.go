package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/sparkfx/parameter"
)

// Player sounds burst cues; implementations never block the caller
type Player interface {
	Burst(n int)
	Close()
}

// Nop is the silent player used when sound is off or no device is available
type Nop struct{}

func (Nop) Burst(int) {}
func (Nop) Close()    {}

// MixerPlayer layers crackles into a beep mixer
type MixerPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	sr     beep.SampleRate
	gain   float64
	lock   func()
	unlock func()

	seed   atomic.Uint32
	played atomic.Int64
	closed bool
}

var speakerOnce struct {
	sync.Once
	err error
}

// Open initializes the speaker and returns a player streaming into it at master volume in [0,1]
// Without a usable audio device, or at zero volume, it returns Nop
func Open(volume float64, logger *zap.Logger) Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	if volume <= 0 {
		return Nop{}
	}
	sr := beep.SampleRate(parameter.AudioSampleRate)
	speakerOnce.Do(func() {
		speakerOnce.err = speaker.Init(sr, sr.N(parameter.AudioBufferDuration))
	})
	if speakerOnce.err != nil {
		logger.Warn("audio unavailable, sound disabled", zap.Error(speakerOnce.err))
		return Nop{}
	}

	p := newMixerPlayer(sr, volume, speaker.Lock, speaker.Unlock)
	speaker.Play(p.mixer)
	logger.Debug("audio ready", zap.Int("sample_rate", int(sr)))
	return p
}

// newMixerPlayer builds a player over a fresh mixer; lock and unlock guard the mixer against the output goroutine
func newMixerPlayer(sr beep.SampleRate, volume float64, lock, unlock func()) *MixerPlayer {
	p := &MixerPlayer{
		mixer:  &beep.Mixer{},
		sr:     sr,
		gain:   math.Log2(min(volume, 1)),
		lock:   lock,
		unlock: unlock,
	}
	p.seed.Store(0x9e3779b9)
	return p
}

// Burst queues one crackle scaled by the burst size n; dropped when n <= 0 or AudioMaxVoices are sounding
func (p *MixerPlayer) Burst(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.lock()
	defer p.unlock()
	if p.mixer.Len() >= parameter.AudioMaxVoices {
		return
	}
	p.mixer.Add(&effects.Volume{
		Streamer: newCrackle(p.sr, p.seed.Add(0x6d2b79f5)),
		Base:     2,
		Volume:   burstVolume(n) + p.gain,
	})
	p.played.Add(1)
}

// Played returns the number of crackles queued
func (p *MixerPlayer) Played() int64 {
	return p.played.Load()
}

// Voices returns the crackles currently in the mixer
func (p *MixerPlayer) Voices() int {
	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// Close silences queued crackles; later bursts are ignored
func (p *MixerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.lock()
	p.mixer.Clear()
	p.unlock()
}
