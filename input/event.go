// Package input translates host events into per-effect state through attachable trackers.
package input

// EventKind classifies host events delivered to listeners
type EventKind uint8

const (
	// EventPointerMove carries the pointer cell in X, Y
	EventPointerMove EventKind = iota + 1
	// EventPointerLeave reports the pointer left the surface or focus was lost
	EventPointerLeave
	// EventResize carries the new viewport size in Width, Height
	EventResize
	// EventKey carries a key press
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer-move"
	case EventPointerLeave:
		return "pointer-leave"
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is a host event already translated out of the terminal library
type Event struct {
	Kind EventKind

	X, Y int

	Width, Height int

	Rune rune
	Name string
}

// Listener receives events on the host's event goroutine
type Listener func(Event)

// ListenerID identifies a registration; 0 is never issued
type ListenerID uint64

// EventTarget is the host side of listener registration
type EventTarget interface {
	AddEventListener(kind EventKind, fn Listener) (ListenerID, error)
	RemoveEventListener(id ListenerID)
}

// Sizer reports the current viewport size in cells
type Sizer interface {
	Size() (width, height int)
}
