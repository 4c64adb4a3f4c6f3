package host

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/sparkfx/core"
	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/render"
)

// Frame runs the callbacks requested before this call, composites all layers and shows the screen
// Callbacks requested while the frame runs are deferred to the next frame
func (s *Stage) Frame(now time.Time) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	batch := s.frames
	s.frames = nil
	s.frameCount++
	s.mu.Unlock()

	for _, f := range batch {
		f.cb(now)
	}

	var hud string
	if s.hud != nil {
		hud = s.hud()
	}
	s.composite(hud)
	s.screen.Show()
}

// composite screen-blends layer backgrounds bottom-up over the stage background
// The top-most glyph wins
func (s *Stage) composite(hud string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.width, s.height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			bg := s.background
			ch, fg, glyph := ' ', render.RGBBlack, false

			for _, l := range s.layers {
				cells := l.surface.Cells()
				if idx >= len(cells) {
					continue
				}
				c := cells[idx]
				bg = render.Screen(bg, c.Bg, 1)
				if c.Rune != 0 {
					ch, fg, glyph = c.Rune, c.Fg, true
				}
			}

			style := tcell.StyleDefault.Background(bg.Tcell())
			if glyph {
				style = style.Foreground(fg.Tcell())
			}
			s.screen.SetContent(x, y, ch, nil, style)
		}
	}

	if hud != "" && h > 0 {
		style := tcell.StyleDefault.Background(s.background.Tcell()).Foreground(hudColor.Tcell())
		x := 0
		for _, r := range hud {
			if x >= w {
				break
			}
			s.screen.SetContent(x, 0, r, nil, style)
			x++
		}
	}
}

var hudColor = render.RGB{R: 150, G: 150, B: 170}

// Run drives frames at the frame interval and dispatches terminal events on the calling goroutine
// Returns nil on context cancel, quit key or screen finalization; Close releases the event poller
func (s *Stage) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStageClosed
	}
	if s.pollDone != nil {
		s.mu.Unlock()
		return errors.New("stage: already running")
	}
	events := make(chan tcell.Event, parameter.EventQueueSize)
	stop := make(chan struct{})
	pollDone := make(chan struct{})
	s.pollDone = pollDone
	s.mu.Unlock()

	// PollEvent only unblocks on Fini, so the poller outlives Run until Close
	core.Go(func() {
		defer close(pollDone)
		defer close(events)
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	})
	defer close(stop)

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	s.logger.Info("stage running", zap.Duration("frame_interval", s.frameInterval))
	s.Frame(s.clock.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stage stopped", zap.Error(ctx.Err()))
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if s.Dispatch(ev) {
				s.logger.Info("quit requested")
				return nil
			}

		case <-ticker.C:
			s.Frame(s.clock.Now())
		}
	}
}
