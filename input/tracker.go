package input

import "fmt"

// listenerSet tracks registrations on one target so they can be released together
type listenerSet struct {
	target EventTarget
	ids    []ListenerID
}

func (l *listenerSet) add(kind EventKind, fn Listener) error {
	id, err := l.target.AddEventListener(kind, fn)
	if err != nil {
		return fmt.Errorf("add %s listener: %w", kind, err)
	}
	l.ids = append(l.ids, id)
	return nil
}

func (l *listenerSet) removeAll() {
	for _, id := range l.ids {
		l.target.RemoveEventListener(id)
	}
	l.ids = l.ids[:0]
}

func (l *listenerSet) len() int {
	return len(l.ids)
}

// PointerTracker keeps State.Pointer current from pointer events
type PointerTracker struct {
	state     *State
	listeners listenerSet
	attached  bool
}

// NewPointerTracker creates a detached tracker writing into state
func NewPointerTracker(target EventTarget, state *State) *PointerTracker {
	return &PointerTracker{state: state, listeners: listenerSet{target: target}}
}

// Attach registers the pointer listeners; attaching twice is a no-op
// A partial registration is rolled back before the error is returned
func (t *PointerTracker) Attach() error {
	if t.attached {
		return nil
	}
	if err := t.listeners.add(EventPointerMove, func(ev Event) {
		t.state.setPointer(ev.X, ev.Y)
	}); err != nil {
		return err
	}
	if err := t.listeners.add(EventPointerLeave, func(Event) {
		t.state.clearPointer()
	}); err != nil {
		t.listeners.removeAll()
		return err
	}
	t.attached = true
	return nil
}

// Detach removes every listener; safe to call repeatedly
func (t *PointerTracker) Detach() {
	t.listeners.removeAll()
	t.state.clearPointer()
	t.attached = false
}

// Attached reports whether listeners are registered
func (t *PointerTracker) Attached() bool {
	return t.attached
}

// Listeners returns the number of registrations held
func (t *PointerTracker) Listeners() int {
	return t.listeners.len()
}

// ResizeTracker keeps State dimensions current from resize events
type ResizeTracker struct {
	state     *State
	sizer     Sizer
	listeners listenerSet
	attached  bool
}

// NewResizeTracker creates a detached tracker; sizer seeds the dimensions on Attach and may be nil
func NewResizeTracker(target EventTarget, sizer Sizer, state *State) *ResizeTracker {
	return &ResizeTracker{state: state, sizer: sizer, listeners: listenerSet{target: target}}
}

// Attach seeds the current size and registers the resize listener; attaching twice is a no-op
func (t *ResizeTracker) Attach() error {
	if t.attached {
		return nil
	}
	w, h := 0, 0
	if t.sizer != nil {
		w, h = t.sizer.Size()
	}
	t.state.setSize(w, h)

	if err := t.listeners.add(EventResize, func(ev Event) {
		t.state.setSize(ev.Width, ev.Height)
	}); err != nil {
		return err
	}
	t.attached = true
	return nil
}

// Detach removes the listener; safe to call repeatedly
func (t *ResizeTracker) Detach() {
	t.listeners.removeAll()
	t.attached = false
}

// Attached reports whether the listener is registered
func (t *ResizeTracker) Attached() bool {
	return t.attached
}

// Listeners returns the number of registrations held
func (t *ResizeTracker) Listeners() int {
	return t.listeners.len()
}
