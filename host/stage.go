// Package host runs effects on a terminal: a tcell screen acting as the page that owns
// event listeners, per-frame callbacks and the layers effects draw into.
package host

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/sparkfx/core"
	"github.com/lixenwraith/sparkfx/engine"
	"github.com/lixenwraith/sparkfx/input"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
	"github.com/lixenwraith/sparkfx/render"
)

// ErrStageClosed is returned by every registration after Close
var ErrStageClosed = errors.New("stage closed")

// LayerID identifies a drawing layer; 0 is never issued
type LayerID uint64

type listenerEntry struct {
	id   input.ListenerID
	kind input.EventKind
	fn   input.Listener
}

type frameEntry struct {
	id engine.FrameID
	cb engine.FrameCallback
}

type layer struct {
	id      LayerID
	z       int
	surface *render.Surface
}

// Stage owns a tcell.Screen and multiplexes it between mounted effects
// Frames and event dispatch run on the goroutine calling Run; registration is safe from any goroutine
type Stage struct {
	mu sync.Mutex

	screen tcell.Screen
	clock  engine.Clock
	logger *zap.Logger

	background    render.RGB
	frameInterval time.Duration
	hud           func() string

	width, height int

	nextListener input.ListenerID
	listeners    []listenerEntry

	// inflight counts running calls per listener; idle is signalled when a call returns
	inflight map[input.ListenerID]int
	idle     *sync.Cond

	nextFrame engine.FrameID
	frames    []frameEntry

	nextLayer LayerID
	layers    []*layer

	frameCount uint64
	closed     bool
	closeOnce  sync.Once
	pollDone   chan struct{}
}

// Option configures a Stage
type Option func(*Stage)

// WithClock sets the clock used to stamp frames in Run
func WithClock(c engine.Clock) Option {
	return func(s *Stage) { s.clock = c }
}

// WithLogger sets the stage logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Stage) { s.logger = l }
}

// WithBackground sets the color layers are composited onto
func WithBackground(c render.RGB) Option {
	return func(s *Stage) { s.background = c }
}

// WithFrameInterval sets the Run frame period
func WithFrameInterval(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.frameInterval = d
		}
	}
}

// WithHUD draws the returned text on the top row after compositing
func WithHUD(fn func() string) Option {
	return func(s *Stage) { s.hud = fn }
}

// New initializes screen and wraps it; the stage takes ownership and finalizes it on Close
func New(screen tcell.Screen, opts ...Option) (*Stage, error) {
	if screen == nil {
		return nil, errors.New("stage: nil screen")
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("stage: init screen: %w", err)
	}

	s := &Stage{
		screen:        screen,
		clock:         engine.SystemClock{},
		logger:        zap.NewNop(),
		background:    render.MustHex(visual.StageBackground),
		frameInterval: parameter.FrameInterval,
		inflight:      make(map[input.ListenerID]int),
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}

	screen.SetStyle(tcell.StyleDefault.Background(s.background.Tcell()))
	screen.HideCursor()
	s.width, s.height = screen.Size()
	core.SetCrashScreen(screen)
	return s, nil
}

// EnableMouse turns on motion reporting so pointer listeners receive moves
func (s *Stage) EnableMouse() {
	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.EnableFocus()
}

// Size implements input.Sizer
func (s *Stage) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// AddEventListener implements input.EventTarget
func (s *Stage) AddEventListener(kind input.EventKind, fn input.Listener) (input.ListenerID, error) {
	if fn == nil {
		return 0, errors.New("stage: nil listener")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStageClosed
	}
	s.nextListener++
	s.listeners = append(s.listeners, listenerEntry{id: s.nextListener, kind: kind, fn: fn})
	return s.nextListener, nil
}

// RemoveEventListener implements input.EventTarget; unknown ids are ignored
// It waits for a call of that listener already in progress, so once it returns the listener never runs again
// A listener may remove other listeners during dispatch but must not remove itself
func (s *Stage) RemoveEventListener(id input.ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = slices.DeleteFunc(s.listeners, func(l listenerEntry) bool { return l.id == id })
	for s.inflight[id] > 0 {
		s.idle.Wait()
	}
}

// RequestFrame implements engine.FrameScheduler
func (s *Stage) RequestFrame(cb engine.FrameCallback) (engine.FrameID, error) {
	if cb == nil {
		return 0, errors.New("stage: nil frame callback")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStageClosed
	}
	s.nextFrame++
	s.frames = append(s.frames, frameEntry{id: s.nextFrame, cb: cb})
	return s.nextFrame, nil
}

// CancelFrame implements engine.FrameScheduler; unknown or already-run ids are ignored
func (s *Stage) CancelFrame(id engine.FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = slices.DeleteFunc(s.frames, func(f frameEntry) bool { return f.id == id })
}

// CreateLayer allocates a transparent surface sized to the screen, composited in ascending z
// Layers with equal z composite in creation order
func (s *Stage) CreateLayer(z int) (*render.Surface, LayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, ErrStageClosed
	}
	s.nextLayer++
	l := &layer{id: s.nextLayer, z: z, surface: render.NewSurface(s.width, s.height)}

	// Stable insert after every layer with z <= l.z
	i, _ := slices.BinarySearchFunc(s.layers, z+1, func(e *layer, target int) int {
		return cmp.Compare(e.z, target)
	})
	s.layers = slices.Insert(s.layers, i, l)

	s.logger.Debug("layer created", zap.Uint64("layer", uint64(l.id)), zap.Int("z", z))
	return l.surface, l.id, nil
}

// RemoveLayer detaches a layer; unknown ids are ignored
func (s *Stage) RemoveLayer(id LayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.layers)
	s.layers = slices.DeleteFunc(s.layers, func(l *layer) bool { return l.id == id })
	if len(s.layers) != before {
		s.logger.Debug("layer removed", zap.Uint64("layer", uint64(id)))
	}
}

// ListenerCount returns registered listeners
func (s *Stage) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// PendingFrames returns outstanding frame requests
func (s *Stage) PendingFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// LayerCount returns live layers
func (s *Stage) LayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Frames returns the number of frames run
func (s *Stage) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCount
}

// Close rejects further registration, drops pending frames and finalizes the screen
// Safe to call repeatedly; waits for the event poller started by Run
func (s *Stage) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.frames = nil
		pollDone := s.pollDone
		s.mu.Unlock()

		core.SetCrashScreen(nil)
		s.screen.Fini()
		if pollDone != nil {
			<-pollDone
		}
		s.logger.Debug("stage closed")
	})
}

// Closed reports whether Close has been called
func (s *Stage) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
