// Package emitter spawns and retires particles according to a spawn policy.
package emitter

import (
	"math"
	"time"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/particle"
	"github.com/lixenwraith/sparkfx/vmath"
)

// BurstFunc observes a burst of n particles emitted at pos
type BurstFunc func(pos vmath.Vec2, n int)

// Emitter owns the live particle set of one effect instance
// The slice is mutated in place each tick; it is never shared outside Particles() reads
type Emitter struct {
	cfg    config.EffectConfig
	rng    *vmath.FastRand
	policy policy

	live []particle.Particle

	spawnAccum float64
	// burstAccum is kept in whole nanoseconds so the carried remainder does not drift
	burstAccum time.Duration
	onBurst    BurstFunc

	spawned uint64
	evicted uint64
}

// New creates an emitter; the policy is fixed for the emitter's lifetime
// cfg is resolved here if the caller did not already
func New(cfg config.EffectConfig, rng *vmath.FastRand) *Emitter {
	cfg = cfg.Resolve()
	if rng == nil {
		rng = vmath.NewFastRand(cfg.Seed)
	}

	e := &Emitter{
		cfg:  cfg,
		rng:  rng,
		live: make([]particle.Particle, 0, cfg.MaxParticles),
	}

	switch cfg.Mode {
	case config.ModeBurst:
		e.policy = &burstPolicy{e: e}
	case config.ModeEdge:
		e.policy = &edgePolicy{e: e, edges: edgeSet(cfg.Edges)}
	default:
		e.policy = &continuousPolicy{e: e}
	}
	return e
}

// OnBurst registers fn to observe bursts; nil removes it
func (e *Emitter) OnBurst(fn BurstFunc) {
	e.onBurst = fn
}

// Tick advances live particles by dt seconds, retires expired or out-of-bounds ones,
// spawns new ones per policy and enforces the population cap by evicting the oldest
// Returns the number of particles spawned this tick
func (e *Emitter) Tick(dt float64, origin vmath.Vec2, hasOrigin bool, bounds vmath.Rect) int {
	if dt < 0 || !vmath.IsFinite(dt) {
		dt = 0
	}
	if hasOrigin && !origin.Finite() {
		hasOrigin = false
	}

	e.retire(dt, bounds)

	before := len(e.live)
	e.policy.spawn(dt, origin, hasOrigin, bounds)
	n := len(e.live) - before
	e.spawned += uint64(n)

	e.enforceCap()
	return n
}

// retire advances all particles and compacts survivors to the front, preserving age order
func (e *Emitter) retire(dt float64, bounds vmath.Rect) {
	checkBounds := !bounds.Empty()
	keep := e.live[:0]
	for i := range e.live {
		p := &e.live[i]
		p.Advance(dt)
		if p.Expired() {
			continue
		}
		if checkBounds && !bounds.Contains(p.Pos, parameter.BoundsMargin) {
			continue
		}
		keep = append(keep, *p)
	}
	// Zero the tail so stale particles do not linger in the backing array
	clear(e.live[len(keep):])
	e.live = keep
}

// enforceCap drops the oldest particles (front of the slice) beyond MaxParticles
func (e *Emitter) enforceCap() {
	excess := len(e.live) - e.cfg.MaxParticles
	if excess <= 0 {
		return
	}
	n := copy(e.live, e.live[excess:])
	clear(e.live[n:])
	e.live = e.live[:n]
	e.evicted += uint64(excess)
}

// Particles returns the live set, oldest first
// The slice is only valid until the next Tick and must not be modified
func (e *Emitter) Particles() []particle.Particle {
	return e.live
}

// Len returns the live particle count
func (e *Emitter) Len() int {
	return len(e.live)
}

// Spawned and Evicted return lifetime counters
func (e *Emitter) Spawned() uint64 { return e.spawned }
func (e *Emitter) Evicted() uint64 { return e.evicted }

// Config returns the resolved configuration
func (e *Emitter) Config() config.EffectConfig {
	return e.cfg
}

// Reset drops every particle and clears spawn accumulators
func (e *Emitter) Reset() {
	clear(e.live)
	e.live = e.live[:0]
	e.spawnAccum = 0
	e.burstAccum = 0
}

// emit appends a particle at pos moving along dir with a configured random speed
func (e *Emitter) emit(pos, dir vmath.Vec2, tint float64) {
	c := &e.cfg
	speed := e.rng.Range(c.Speed.Min, c.Speed.Max)
	e.live = append(e.live, particle.Particle{
		Pos:      pos,
		Vel:      dir.Scale(speed),
		MaxAge:   e.rng.Range(c.Life.Min, c.Life.Max),
		Size:     e.rng.Range(c.Size.Min, c.Size.Max),
		Alpha:    1,
		Decay:    c.Decay,
		Friction: c.Friction,
		Gravity:  c.Gravity,
		Tint:     tint,
	})
}

// takeSpawnCount converts a fractional per-tick rate into a whole count, carrying the remainder
func (e *Emitter) takeSpawnCount() int {
	e.spawnAccum += e.cfg.SpawnRate
	n := int(math.Floor(e.spawnAccum))
	e.spawnAccum -= float64(n)
	return n
}
