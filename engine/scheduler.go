package engine

import (
	"errors"
	"sync"
	"time"
)

// FrameID identifies one outstanding frame request; 0 is never issued
type FrameID uint64

// FrameCallback receives the frame timestamp
type FrameCallback func(now time.Time)

// FrameScheduler is a one-shot per-frame callback service
// A request fires at most once, on the next frame; callbacks requested during a frame run on the following one
type FrameScheduler interface {
	RequestFrame(cb FrameCallback) (FrameID, error)
	CancelFrame(id FrameID)
}

// ErrSchedulerClosed is returned by ManualScheduler after Close
var ErrSchedulerClosed = errors.New("frame scheduler closed")

// ManualScheduler is a FrameScheduler stepped explicitly, for deterministic tests and headless hosts
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]FrameCallback
	order   []FrameID
	closed  bool
}

// NewManualScheduler creates an empty scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[FrameID]FrameCallback)}
}

func (s *ManualScheduler) RequestFrame(cb FrameCallback) (FrameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSchedulerClosed
	}
	s.nextID++
	id := s.nextID
	s.pending[id] = cb
	s.order = append(s.order, id)
	return id, nil
}

func (s *ManualScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Pending returns the number of outstanding requests
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Step runs the snapshot of requests outstanding at call time, in request order
// Returns the number of callbacks run
func (s *ManualScheduler) Step(now time.Time) int {
	s.mu.Lock()
	order := s.order
	s.order = nil
	batch := make([]FrameCallback, 0, len(order))
	for _, id := range order {
		if cb, ok := s.pending[id]; ok {
			batch = append(batch, cb)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
	return len(batch)
}

// Close rejects further requests and drops pending ones
func (s *ManualScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.pending)
	s.order = nil
}
