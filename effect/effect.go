// Package effect mounts one configured particle effect on a host and owns everything it acquires.
package effect

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/sparkfx/audio"
	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/emitter"
	"github.com/lixenwraith/sparkfx/engine"
	"github.com/lixenwraith/sparkfx/host"
	"github.com/lixenwraith/sparkfx/input"
	"github.com/lixenwraith/sparkfx/render"
	"github.com/lixenwraith/sparkfx/status"
	"github.com/lixenwraith/sparkfx/vmath"
)

// ErrNoSurface is returned when the host cannot provide a drawing layer
var ErrNoSurface = errors.New("no drawing surface")

// fpsWeight is the EMA weight of each frame's rate sample
const fpsWeight = 0.1

// Host is what an effect needs from the page it runs on
type Host interface {
	engine.FrameScheduler
	input.EventTarget
	input.Sizer
	CreateLayer(z int) (*render.Surface, host.LayerID, error)
	RemoveLayer(id host.LayerID)
}

// Stats is a point-in-time view of an effect's counters, safe to read from any goroutine
type Stats struct {
	Live    int64
	Spawned int64
	Evicted int64
	Ticks   int64
	FPS     float64
}

// Effect is one mounted instance: its own loop, emitter, particles and input state
// Initialize and Dispose may be called from any goroutine; ticks run on the host frame goroutine
type Effect struct {
	id      uuid.UUID
	host    Host
	cfg     config.EffectConfig
	logger  *zap.Logger
	metrics *status.Registry
	prefix  string
	player  audio.Player
	rng     *vmath.FastRand

	mu     sync.Mutex
	active bool

	// Set before the loop starts and cleared after it stops; ticks read them without mu
	state    input.State
	layerID  host.LayerID
	surface  *render.Surface
	resize   *input.ResizeTracker
	pointer  *input.PointerTracker
	emitter  *emitter.Emitter
	renderer *render.Renderer
	overlay  render.Overlay
	loop     *engine.Loop

	faulted atomic.Bool

	live, spawned, evicted, ticks *atomic.Int64
	fps                           *status.AtomicFloat
}

// Option configures an Effect
type Option func(*Effect)

// WithLogger sets the parent logger; the effect logs through a child carrying its name and id
func WithLogger(l *zap.Logger) Option {
	return func(e *Effect) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics registers the effect's counters in a shared registry
func WithMetrics(r *status.Registry) Option {
	return func(e *Effect) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithAudio sets the player sounding bursts when the config enables sound
func WithAudio(p audio.Player) Option {
	return func(e *Effect) {
		if p != nil {
			e.player = p
		}
	}
}

// WithRand fixes the random source; without it a zero Seed is derived from the instance id
func WithRand(rng *vmath.FastRand) Option {
	return func(e *Effect) { e.rng = rng }
}

// New creates an inactive effect; cfg is resolved once here and never patched afterwards
func New(h Host, cfg config.EffectConfig, opts ...Option) *Effect {
	cfg = cfg.Resolve()
	e := &Effect{
		id:      uuid.New(),
		host:    h,
		cfg:     cfg,
		logger:  zap.NewNop(),
		metrics: status.NewRegistry(),
		player:  audio.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = binary.LittleEndian.Uint64(e.id[:8])
		}
		e.rng = vmath.NewFastRand(seed)
	}

	name := e.Name()
	e.logger = e.logger.With(zap.String("effect", name), zap.String("id", e.id.String()))
	e.prefix = fmt.Sprintf("effect.%s.%s.", name, e.id.String()[:8])
	return e
}

// ID returns the instance id
func (e *Effect) ID() uuid.UUID { return e.id }

// Name returns the configured name, or "effect" when unnamed
func (e *Effect) Name() string {
	if e.cfg.Name != "" {
		return e.cfg.Name
	}
	return "effect"
}

// Config returns the resolved config
func (e *Effect) Config() config.EffectConfig { return e.cfg }

// MetricPrefix is the registry prefix of this instance's counters
func (e *Effect) MetricPrefix() string { return e.prefix }

// Active reports whether the effect holds resources and is ticking
func (e *Effect) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Faulted reports whether a tick panicked; a faulted effect stays mounted but no longer updates
func (e *Effect) Faulted() bool {
	return e.faulted.Load()
}

// Initialize acquires the layer, trackers and loop, then starts ticking
// A disabled config is a no-op; calling it on an active effect is a no-op
// On any failure, including a panic, everything acquired is released and the error is returned
func (e *Effect) Initialize() (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return nil
	}
	if !e.cfg.Enabled() {
		e.logger.Debug("effect disabled, not mounting")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effect %s: initialize panic: %v", e.Name(), r)
		}
		if err != nil {
			e.releaseLocked()
			e.logger.Warn("effect failed to mount", zap.Error(err))
		}
	}()

	if e.host == nil {
		return fmt.Errorf("effect %s: %w: nil host", e.Name(), ErrNoSurface)
	}

	e.renderer, err = render.NewRenderer(e.cfg)
	if err != nil {
		return fmt.Errorf("effect %s: renderer: %w", e.Name(), err)
	}

	surface, layerID, err := e.host.CreateLayer(e.cfg.Layer)
	if err != nil {
		return fmt.Errorf("effect %s: %w: %w", e.Name(), ErrNoSurface, err)
	}
	if surface == nil {
		return fmt.Errorf("effect %s: %w", e.Name(), ErrNoSurface)
	}
	e.surface, e.layerID = surface, layerID

	e.state = input.State{}
	e.resize = input.NewResizeTracker(e.host, e.host, &e.state)
	if err := e.resize.Attach(); err != nil {
		return fmt.Errorf("effect %s: resize tracker: %w", e.Name(), err)
	}
	if e.cfg.UsesPointer() {
		e.pointer = input.NewPointerTracker(e.host, &e.state)
		if err := e.pointer.Attach(); err != nil {
			return fmt.Errorf("effect %s: pointer tracker: %w", e.Name(), err)
		}
	}

	e.emitter = emitter.New(e.cfg, e.rng)
	if e.cfg.Sound {
		player := e.player
		e.emitter.OnBurst(func(_ vmath.Vec2, n int) { player.Burst(n) })
	}
	e.overlay = render.NewOverlay(e.cfg, e.rng)
	e.registerMetrics()

	e.faulted.Store(false)
	e.loop = engine.NewLoop(e.host, e.tick)
	if err := e.loop.Start(); err != nil {
		return fmt.Errorf("effect %s: %w", e.Name(), err)
	}

	e.active = true
	e.logger.Info("effect mounted",
		zap.String("mode", string(e.cfg.Mode)),
		zap.String("overlay", string(e.cfg.Overlay)),
		zap.Int("max_particles", e.cfg.MaxParticles),
		zap.Int("layer", e.cfg.Layer),
	)
	return nil
}

func (e *Effect) registerMetrics() {
	e.live = e.metrics.Ints.Get(e.prefix + "live")
	e.spawned = e.metrics.Ints.Get(e.prefix + "spawned")
	e.evicted = e.metrics.Ints.Get(e.prefix + "evicted")
	e.ticks = e.metrics.Ints.Get(e.prefix + "ticks")
	e.fps = e.metrics.Floats.Get(e.prefix + "fps")
}

// Dispose stops the loop, detaches listeners, removes the layer and unregisters metrics
// Idempotent; no tick runs after it returns
func (e *Effect) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	e.releaseLocked()
	e.logger.Info("effect disposed")
}

// releaseLocked tears down in reverse acquisition order; safe on a partially initialized effect
func (e *Effect) releaseLocked() {
	if e.loop != nil {
		e.loop.Stop()
		e.loop = nil
	}
	if e.pointer != nil {
		e.pointer.Detach()
		e.pointer = nil
	}
	if e.resize != nil {
		e.resize.Detach()
		e.resize = nil
	}
	if e.layerID != 0 {
		e.host.RemoveLayer(e.layerID)
		e.layerID = 0
	}
	if e.live != nil {
		e.metrics.DeletePrefix(e.prefix)
		e.live, e.spawned, e.evicted, e.ticks, e.fps = nil, nil, nil, nil, nil
	}
	e.surface = nil
	e.emitter = nil
	e.renderer = nil
	e.overlay = nil
	e.active = false
}

// Stats reads the live counters; zero when inactive
func (e *Effect) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live == nil {
		return Stats{}
	}
	return Stats{
		Live:    e.live.Load(),
		Spawned: e.spawned.Load(),
		Evicted: e.evicted.Load(),
		Ticks:   e.ticks.Load(),
		FPS:     e.fps.Get(),
	}
}

// tick advances the simulation by dt and redraws the layer
// A panic is contained: the effect is marked faulted, its layer cleared and later ticks skipped
func (e *Effect) tick(dt time.Duration, _ time.Time) {
	if e.faulted.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.faulted.Store(true)
			e.surface.Clear()
			e.logger.Error("effect tick panicked, effect halted", zap.Any("panic", r))
		}
	}()

	secs := dt.Seconds()
	pointer, hasPointer := e.state.PointerPos()
	bounds := e.state.Bounds()

	e.emitter.Tick(secs, pointer, hasPointer, bounds)
	e.overlay.Update(secs, pointer, hasPointer, bounds)
	e.renderer.DrawFrame(e.surface, e.emitter.Particles(), e.overlay)

	e.live.Store(int64(e.emitter.Len()))
	e.spawned.Store(int64(e.emitter.Spawned()))
	e.evicted.Store(int64(e.emitter.Evicted()))
	e.ticks.Add(1)
	if secs > 0 {
		e.fps.Smooth(1/secs, fpsWeight)
	}
}
