package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/lixenwraith/sparkfx/parameter"
)

// TickFunc advances one effect by dt
type TickFunc func(dt time.Duration, now time.Time)

type loopState uint8

const (
	loopIdle loopState = iota
	loopRunning
)

// Loop drives a TickFunc from a FrameScheduler, keeping at most one request outstanding
// Start and Stop may be called from any goroutine; Stop waits for an in-flight tick
type Loop struct {
	mu    sync.Mutex
	sched FrameScheduler
	tick  TickFunc

	state    loopState
	pending  FrameID
	lastTick time.Time
	hasLast  bool

	// gen invalidates callbacks issued before the last Start or Stop
	gen uint64

	ticks uint64
	err   error
}

// NewLoop creates an idle loop
func NewLoop(sched FrameScheduler, tick TickFunc) *Loop {
	return &Loop{sched: sched, tick: tick}
}

// Start schedules the first frame; calling Start on a running loop is a no-op
// The first tick after Start receives dt = 0
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == loopRunning {
		return nil
	}
	l.hasLast = false
	l.err = nil
	l.gen++
	if err := l.requestLocked(); err != nil {
		return fmt.Errorf("loop start: %w", err)
	}
	l.state = loopRunning
	return nil
}

// Stop cancels the outstanding request; safe to call repeatedly and on a never-started loop
// After Stop returns no tick runs until the next Start
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending != 0 {
		l.sched.CancelFrame(l.pending)
		l.pending = 0
	}
	l.state = loopIdle
	l.gen++
}

// Running reports whether a frame is being requested
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == loopRunning
}

// Pending returns the outstanding request id, 0 when none
func (l *Loop) Pending() FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Ticks returns the number of ticks run since creation
func (l *Loop) Ticks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// Err returns the scheduling error that stopped a running loop, if any
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loop) requestLocked() error {
	gen := l.gen
	id, err := l.sched.RequestFrame(func(now time.Time) { l.onFrame(gen, now) })
	if err != nil {
		return err
	}
	l.pending = id
	return nil
}

// onFrame runs one tick and requests the next frame
// A callback that outlived Stop (snapshot already taken by the scheduler) is ignored
func (l *Loop) onFrame(gen uint64, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != loopRunning || gen != l.gen {
		return
	}
	l.pending = 0

	l.tick(l.frameDelta(now), now)
	l.ticks++

	if err := l.requestLocked(); err != nil {
		l.state = loopIdle
		l.err = err
	}
}

// frameDelta returns 0 on the first frame, treats clock skew as 0 and clamps stalls
func (l *Loop) frameDelta(now time.Time) time.Duration {
	var dt time.Duration
	if l.hasLast {
		dt = now.Sub(l.lastTick)
	}
	l.lastTick = now
	l.hasLast = true

	if dt < 0 {
		return 0
	}
	return min(dt, parameter.MaxFrameDelta)
}
