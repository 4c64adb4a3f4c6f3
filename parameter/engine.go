package parameter

import "time"

// Frame Loop Timing
const (
	// FrameInterval is the stage frame interval (~60 FPS)
	FrameInterval = 16 * time.Millisecond

	// MaxFrameDelta caps the delta handed to physics after a stall (suspended terminal, debugger)
	MaxFrameDelta = 100 * time.Millisecond

	// ReferenceFrameRate is the rate per-frame factors (decay, friction) are expressed against
	ReferenceFrameRate = 60.0

	// EventQueueSize is the buffered capacity between the poll goroutine and the stage loop
	EventQueueSize = 256
)

// Terminal geometry
const (
	// AspectRatio is the height:width ratio of a terminal cell, used to keep glows circular
	AspectRatio = 2.1

	// DefaultWidth and DefaultHeight are used when a host reports no size
	DefaultWidth  = 80
	DefaultHeight = 24
)
