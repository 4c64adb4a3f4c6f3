package effect

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/engine"
	"github.com/lixenwraith/sparkfx/host"
	"github.com/lixenwraith/sparkfx/input"
	"github.com/lixenwraith/sparkfx/render"
	"github.com/lixenwraith/sparkfx/status"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	stage *host.Stage
	clock *engine.MockClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	stage, err := host.New(sim)
	require.NoError(t, err)
	sim.SetSize(40, 20)
	stage.Dispatch(tcell.NewEventResize(40, 20))
	t.Cleanup(stage.Close)
	return &harness{stage: stage, clock: engine.NewMockClock(time.Unix(1000, 0))}
}

// frames runs n stage frames spaced by step
func (h *harness) frames(n int, step time.Duration) {
	for range n {
		h.stage.Frame(h.clock.Advance(step))
	}
}

func (h *harness) pointerAt(x, y int) {
	h.stage.Dispatch(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

// residue is everything an effect can leave registered on the stage
func (h *harness) residue() [3]int {
	return [3]int{h.stage.ListenerCount(), h.stage.PendingFrames(), h.stage.LayerCount()}
}

func trailConfig() config.EffectConfig {
	return config.EffectConfig{
		Name:         "trail",
		Mode:         config.ModeContinuous,
		MaxParticles: 50,
		SpawnRate:    2,
		Seed:         7,
	}
}

func TestEffectInitializeAcquires(t *testing.T) {
	h := newHarness(t)
	e := New(h.stage, trailConfig())
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Initialize(), "second Initialize is a no-op")

	assert.True(t, e.Active())
	// resize + pointer move + pointer leave
	assert.Equal(t, [3]int{3, 1, 1}, h.residue())

	e.Dispose()
	e.Dispose()
	assert.False(t, e.Active())
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())
}

func TestEffectNoPointerTrackerWhenUnused(t *testing.T) {
	h := newHarness(t)
	cfg := config.EffectConfig{Mode: config.ModeEdge, Edges: []string{config.EdgeBottom}}
	e := New(h.stage, cfg)
	require.NoError(t, e.Initialize())
	defer e.Dispose()
	assert.Equal(t, 1, h.stage.ListenerCount(), "only the resize listener")
}

func TestEffectMountUnmountMount(t *testing.T) {
	h := newHarness(t)
	reg := status.NewRegistry()
	m := NewMount(h.stage, WithMetrics(reg))

	baseline := h.residue()
	require.NoError(t, m.Apply(trailConfig()))
	h.pointerAt(10, 10)
	h.frames(5, 16*time.Millisecond)
	mounted := h.residue()
	require.NotZero(t, reg.TotalCount())

	m.Close()
	assert.Equal(t, baseline, h.residue())
	assert.Zero(t, reg.TotalCount(), "metrics unregistered")

	m2 := NewMount(h.stage, WithMetrics(reg))
	require.NoError(t, m2.Apply(trailConfig()))
	assert.Equal(t, mounted, h.residue(), "remount holds exactly one set of registrations")
	m2.Close()
	assert.Equal(t, baseline, h.residue())
}

func TestEffectCapEvictsOldest(t *testing.T) {
	h := newHarness(t)
	cfg := config.EffectConfig{
		Mode:         config.ModeContinuous,
		MaxParticles: 5,
		SpawnRate:    10,
		Intensity:    config.IntensityMedium,
		Seed:         3,
	}
	e := New(h.stage, cfg)
	require.NoError(t, e.Initialize())
	defer e.Dispose()

	h.pointerAt(20, 10)
	h.frames(1, 16*time.Millisecond)

	st := e.Stats()
	assert.Equal(t, int64(5), st.Live)
	assert.Equal(t, int64(10), st.Spawned)
	assert.Equal(t, int64(5), st.Evicted)

	for range 10 {
		h.frames(1, 16*time.Millisecond)
		assert.LessOrEqual(t, e.Stats().Live, int64(5))
	}
}

func TestEffectDrawsIntoLayer(t *testing.T) {
	h := newHarness(t)
	cfg := trailConfig()
	cfg.Core = true
	e := New(h.stage, cfg)
	require.NoError(t, e.Initialize())
	defer e.Dispose()

	h.frames(2, 16*time.Millisecond)
	assert.Zero(t, e.Stats().Live, "no pointer, no spawn")

	h.pointerAt(20, 10)
	h.frames(3, 16*time.Millisecond)
	assert.Positive(t, e.Stats().Live)
	assert.Positive(t, e.surface.Lit())
}

func TestEffectDisabled(t *testing.T) {
	h := newHarness(t)
	cfg := trailConfig()
	cfg.Disabled = true
	e := New(h.stage, cfg)

	require.NoError(t, e.Initialize())
	assert.False(t, e.Active())
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())
	e.Dispose()
}

func TestEffectDisposeStopsTicks(t *testing.T) {
	h := newHarness(t)
	e := New(h.stage, trailConfig())
	require.NoError(t, e.Initialize())
	h.frames(3, 16*time.Millisecond)
	ticks := e.loop.Ticks()
	require.Equal(t, uint64(3), ticks)

	loop := e.loop
	e.Dispose()
	h.frames(3, 16*time.Millisecond)
	assert.Equal(t, ticks, loop.Ticks())
	assert.False(t, loop.Running())
}

// failingHost wraps a stage and refuses one kind of registration
type failingHost struct {
	*host.Stage
	failLayer bool
	failKind  input.EventKind
}

var errRefused = errors.New("refused")

func (f *failingHost) CreateLayer(z int) (*render.Surface, host.LayerID, error) {
	if f.failLayer {
		return nil, 0, errRefused
	}
	return f.Stage.CreateLayer(z)
}

func (f *failingHost) AddEventListener(kind input.EventKind, fn input.Listener) (input.ListenerID, error) {
	if kind == f.failKind {
		return 0, errRefused
	}
	return f.Stage.AddEventListener(kind, fn)
}

func TestEffectInitializeFailureReleases(t *testing.T) {
	tests := []struct {
		name    string
		host    func(*host.Stage) *failingHost
		wantErr error
	}{
		{
			name:    "layer refused",
			host:    func(s *host.Stage) *failingHost { return &failingHost{Stage: s, failLayer: true} },
			wantErr: ErrNoSurface,
		},
		{
			name:    "resize listener refused",
			host:    func(s *host.Stage) *failingHost { return &failingHost{Stage: s, failKind: input.EventResize} },
			wantErr: errRefused,
		},
		{
			name:    "pointer listener refused",
			host:    func(s *host.Stage) *failingHost { return &failingHost{Stage: s, failKind: input.EventPointerLeave} },
			wantErr: errRefused,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			e := New(tt.host(h.stage), trailConfig())
			err := e.Initialize()
			require.ErrorIs(t, err, tt.wantErr)
			assert.False(t, e.Active())
			assert.Equal(t, [3]int{0, 0, 0}, h.residue(), "partial acquisition released")
		})
	}
}

func TestEffectClosedStage(t *testing.T) {
	h := newHarness(t)
	h.stage.Close()
	e := New(h.stage, trailConfig())
	err := e.Initialize()
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.ErrorIs(t, err, host.ErrStageClosed)
	assert.False(t, e.Active())
}

// panicHost panics when asked for a layer
type panicHost struct{ *host.Stage }

func (panicHost) CreateLayer(int) (*render.Surface, host.LayerID, error) {
	panic("layer provider exploded")
}

func TestEffectInitializePanicContained(t *testing.T) {
	h := newHarness(t)
	e := New(panicHost{h.stage}, trailConfig())
	err := e.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layer provider exploded")
	assert.False(t, e.Active())
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())
}

func TestEffectNilHost(t *testing.T) {
	e := New(nil, trailConfig())
	assert.ErrorIs(t, e.Initialize(), ErrNoSurface)
	e.Dispose()
}

func TestEffectTickPanicContained(t *testing.T) {
	h := newHarness(t)
	e := New(h.stage, trailConfig())
	require.NoError(t, e.Initialize())
	defer e.Dispose()

	h.frames(1, 16*time.Millisecond)
	e.overlay = panicOverlay{}
	h.frames(1, 16*time.Millisecond)
	assert.True(t, e.Faulted())

	ticks := e.Stats().Ticks
	h.frames(2, 16*time.Millisecond)
	assert.Equal(t, ticks, e.Stats().Ticks, "faulted effect stops updating")
	assert.Equal(t, 1, h.stage.PendingFrames(), "loop keeps its single request")
}

type panicOverlay struct{ render.NoOverlay }

func (panicOverlay) Draw(*render.Surface) { panic("draw failed") }

type recordingPlayer struct {
	mu     sync.Mutex
	bursts []int
}

func (p *recordingPlayer) Burst(n int) {
	p.mu.Lock()
	p.bursts = append(p.bursts, n)
	p.mu.Unlock()
}

func (p *recordingPlayer) Close() {}

func TestEffectBurstSound(t *testing.T) {
	tests := []struct {
		name  string
		sound bool
	}{
		{"sound on", true},
		{"sound off", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			player := &recordingPlayer{}
			cfg := config.EffectConfig{
				Mode:          config.ModeBurst,
				RandomOrigin:  true,
				BurstSize:     12,
				BurstInterval: 150 * time.Millisecond,
				Sound:         tt.sound,
				Seed:          9,
			}
			e := New(h.stage, cfg, WithAudio(player))
			require.NoError(t, e.Initialize())
			defer e.Dispose()

			h.frames(5, 100*time.Millisecond)
			if tt.sound {
				require.NotEmpty(t, player.bursts)
				assert.Equal(t, 12, player.bursts[0])
			} else {
				assert.Empty(t, player.bursts)
			}
			assert.Positive(t, e.Stats().Spawned)
		})
	}
}

func TestEffectIdentity(t *testing.T) {
	h := newHarness(t)
	a := New(h.stage, trailConfig())
	b := New(h.stage, config.EffectConfig{})
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "trail", a.Name())
	assert.Equal(t, "effect", b.Name())
	assert.NotEqual(t, a.MetricPrefix(), b.MetricPrefix())
	assert.True(t, a.Config().Resolved())
}

func TestMountApplyReplaces(t *testing.T) {
	h := newHarness(t)
	m := NewMount(h.stage)
	defer m.Close()

	require.NoError(t, m.Apply(trailConfig()))
	first := m.Current()
	require.NotNil(t, first)

	cfg := trailConfig()
	cfg.MaxParticles = 9
	require.NoError(t, m.Apply(cfg))
	second := m.Current()
	assert.NotSame(t, first, second)
	assert.False(t, first.Active())
	assert.Equal(t, 9, second.Config().MaxParticles)
	assert.Equal(t, 1, h.stage.LayerCount())
}

func TestMountSetEnabled(t *testing.T) {
	h := newHarness(t)
	m := NewMount(h.stage)
	require.NoError(t, m.Apply(trailConfig()))

	require.NoError(t, m.SetEnabled(false))
	assert.False(t, m.Current().Active())
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())

	require.NoError(t, m.SetEnabled(false))
	require.NoError(t, m.SetEnabled(true))
	assert.True(t, m.Current().Active())
	assert.Equal(t, "trail", m.Current().Name(), "config survives the toggle")

	m.Close()
	m.Close()
	assert.ErrorIs(t, m.Apply(trailConfig()), ErrMountClosed)
	assert.ErrorIs(t, m.SetEnabled(true), ErrMountClosed)
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())
}

func TestMountSetEnabledBeforeApply(t *testing.T) {
	h := newHarness(t)
	m := NewMount(h.stage)
	defer m.Close()

	assert.ErrorIs(t, m.SetEnabled(true), ErrNotApplied)
	assert.ErrorIs(t, m.SetEnabled(false), ErrNotApplied)
	assert.Nil(t, m.Current(), "no default effect mounted")
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())

	require.NoError(t, m.Apply(trailConfig()))
	require.NoError(t, m.SetEnabled(false))
	assert.False(t, m.Current().Active())
}

func TestMountApplyFailureLeavesEmpty(t *testing.T) {
	h := newHarness(t)
	m := NewMount(&failingHost{Stage: h.stage, failLayer: true})
	defer m.Close()

	assert.ErrorIs(t, m.Apply(trailConfig()), ErrNoSurface)
	assert.Nil(t, m.Current())
	assert.Equal(t, [3]int{0, 0, 0}, h.residue())
}
