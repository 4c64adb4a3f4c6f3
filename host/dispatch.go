package host

import (
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/sparkfx/input"
)

// Dispatch translates a terminal event and delivers it to listeners in registration order
// Returns true when the event is a quit request (q, Esc, Ctrl-C); quit keys are not delivered
func (s *Stage) Dispatch(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		s.emit(input.Event{Kind: input.EventPointerMove, X: x, Y: y})

	case *tcell.EventFocus:
		if !ev.Focused {
			s.emit(input.Event{Kind: input.EventPointerLeave})
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		s.resize(w, h)
		s.emit(input.Event{Kind: input.EventResize, Width: w, Height: h})

	case *tcell.EventKey:
		if isQuitKey(ev) {
			return true
		}
		s.emit(input.Event{Kind: input.EventKey, Rune: ev.Rune(), Name: ev.Name()})
	}
	return false
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// emit calls listeners outside the lock so they may register listeners or remove other ones
// A listener removed by an earlier one in the same dispatch is skipped
func (s *Stage) emit(ev input.Event) {
	s.mu.Lock()
	var batch []listenerEntry
	for _, l := range s.listeners {
		if l.kind == ev.Kind {
			batch = append(batch, l)
		}
	}
	s.mu.Unlock()

	for _, l := range batch {
		s.deliver(l, ev)
	}
}

// deliver runs one listener if it is still registered, marking it in flight for RemoveEventListener
func (s *Stage) deliver(l listenerEntry, ev input.Event) {
	s.mu.Lock()
	if !slices.ContainsFunc(s.listeners, func(e listenerEntry) bool { return e.id == l.id }) {
		s.mu.Unlock()
		return
	}
	s.inflight[l.id]++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inflight[l.id]--; s.inflight[l.id] <= 0 {
			delete(s.inflight, l.id)
		}
		s.idle.Broadcast()
		s.mu.Unlock()
	}()
	l.fn(ev)
}

// resize tracks the screen size and resizes every layer, which clears them
func (s *Stage) resize(w, h int) {
	s.mu.Lock()
	s.width, s.height = w, h
	for _, l := range s.layers {
		l.surface.Resize(w, h)
	}
	s.mu.Unlock()
	s.screen.Sync()
}
