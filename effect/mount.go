package effect

import (
	"errors"
	"sync"

	"github.com/lixenwraith/sparkfx/config"
)

// ErrMountClosed is returned by Apply after Close
var ErrMountClosed = errors.New("mount closed")

// ErrNotApplied is returned by SetEnabled before any config was applied
var ErrNotApplied = errors.New("mount has no config")

// Mount is a slot holding at most one live effect
// A config change replaces the effect wholesale: the old instance is disposed before the new one initializes
type Mount struct {
	mu      sync.Mutex
	host    Host
	opts    []Option
	cfg     config.EffectConfig
	applied bool
	current *Effect
	closed  bool
}

// NewMount creates an empty slot; opts apply to every effect it creates
func NewMount(h Host, opts ...Option) *Mount {
	return &Mount{host: h, opts: opts}
}

// Apply disposes the current effect and mounts a fresh one for cfg
// On failure the slot is left empty and the error returned
func (m *Mount) Apply(cfg config.EffectConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMountClosed
	}
	return m.replaceLocked(cfg)
}

// SetEnabled re-applies the last config with the enabled flag changed
// Before the first Apply there is nothing to enable and ErrNotApplied is returned
func (m *Mount) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMountClosed
	}
	if !m.applied {
		return ErrNotApplied
	}
	if m.current != nil && m.cfg.Enabled() == enabled {
		return nil
	}
	cfg := m.cfg
	cfg.Disabled = !enabled
	return m.replaceLocked(cfg)
}

func (m *Mount) replaceLocked(cfg config.EffectConfig) error {
	if m.current != nil {
		m.current.Dispose()
		m.current = nil
	}
	m.cfg = cfg
	m.applied = true

	e := New(m.host, cfg, m.opts...)
	if err := e.Initialize(); err != nil {
		return err
	}
	m.current = e
	return nil
}

// Current returns the live effect, or nil when the slot is empty
// A disabled config still yields an inactive effect here
func (m *Mount) Current() *Effect {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close disposes the current effect; later Apply calls fail
func (m *Mount) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.current != nil {
		m.current.Dispose()
		m.current = nil
	}
}
