package emitter

import (
	"testing"
	"time"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/vmath"
)

var testBounds = vmath.RectWH(200, 200)

// TestCapScenario covers maxParticles=5, spawnRate=10, decay=0.5 over three 16ms ticks
func TestCapScenario(t *testing.T) {
	cfg := config.EffectConfig{MaxParticles: 5, SpawnRate: 10, Decay: 0.5}
	e := New(cfg, vmath.NewFastRand(42))
	origin := vmath.V2(100, 100)

	for tick := 1; tick <= 3; tick++ {
		spawned := e.Tick(0.016, origin, true, testBounds)
		if spawned != 10 {
			t.Fatalf("tick %d spawned %d, want 10", tick, spawned)
		}
		if e.Len() > 5 {
			t.Fatalf("tick %d: live %d exceeds cap", tick, e.Len())
		}
	}

	if e.Len() != 5 {
		t.Fatalf("live after tick 3 = %d, want min(5, 30) = 5", e.Len())
	}

	// Oldest evicted first: survivors are the newest spawn, not yet advanced
	for i, p := range e.Particles() {
		if p.Age != 0 {
			t.Errorf("particle %d has age %v, expected only fresh particles to survive", i, p.Age)
		}
	}
	if e.Evicted() != 25 {
		t.Errorf("evicted = %d, want 25", e.Evicted())
	}
}

// TestCapNeverExceeded checks the cap after every tick across policies
func TestCapNeverExceeded(t *testing.T) {
	modes := []config.EffectConfig{
		{Mode: config.ModeContinuous, MaxParticles: 17, SpawnRate: 7.3},
		{Mode: config.ModeEdge, MaxParticles: 9, SpawnRate: 4},
		{Mode: config.ModeBurst, MaxParticles: 12, BurstSize: 50, BurstInterval: 10 * time.Millisecond},
	}

	for _, cfg := range modes {
		t.Run(string(cfg.Mode), func(t *testing.T) {
			e := New(cfg, vmath.NewFastRand(7))
			limit := e.Config().MaxParticles
			for tick := 0; tick < 500; tick++ {
				e.Tick(0.016, vmath.V2(50, 50), true, testBounds)
				if e.Len() > limit {
					t.Fatalf("tick %d: live %d > cap %d", tick, e.Len(), limit)
				}
			}
			if e.Spawned() == 0 {
				t.Error("policy never spawned")
			}
		})
	}
}

func TestContinuousNeedsOrigin(t *testing.T) {
	e := New(config.EffectConfig{SpawnRate: 5}, vmath.NewFastRand(1))
	if n := e.Tick(0.016, vmath.Vec2{}, false, testBounds); n != 0 {
		t.Errorf("spawned %d without an origin", n)
	}
}

func TestFractionalSpawnRateAccumulates(t *testing.T) {
	e := New(config.EffectConfig{SpawnRate: 0.25, MaxParticles: 100}, vmath.NewFastRand(3))
	total := 0
	for i := 0; i < 8; i++ {
		total += e.Tick(0, vmath.V2(10, 10), true, testBounds)
	}
	if total != 2 {
		t.Errorf("0.25/tick over 8 ticks spawned %d, want 2", total)
	}
}

func TestRetiresExpiredAndOutOfBounds(t *testing.T) {
	cfg := config.EffectConfig{
		SpawnRate:    3,
		MaxParticles: 50,
		Speed:        config.Range{Min: 100, Max: 100},
		Life:         config.Range{Min: 10, Max: 10},
		Friction:     1,
		Decay:        1,
	}
	e := New(cfg, vmath.NewFastRand(11))
	small := vmath.RectWH(20, 20)

	e.Tick(0, vmath.V2(10, 10), true, small)
	if e.Len() != 3 {
		t.Fatalf("expected 3 live particles, got %d", e.Len())
	}

	// At 100 cells/s every particle leaves a 20x20 viewport (+margin) within half a second
	e.Tick(0.5, vmath.Vec2{}, false, small)
	if e.Len() != 0 {
		t.Errorf("out-of-bounds particles survived: %d", e.Len())
	}
}

func TestBurstInterval(t *testing.T) {
	cfg := config.EffectConfig{
		Mode:          config.ModeBurst,
		BurstSize:     8,
		BurstInterval: 100 * time.Millisecond,
		MaxParticles:  100,
	}
	e := New(cfg, vmath.NewFastRand(5))

	var bursts []vmath.Vec2
	e.OnBurst(func(pos vmath.Vec2, n int) {
		if n != 8 {
			t.Errorf("burst size %d, want 8", n)
		}
		bursts = append(bursts, pos)
	})

	origin := vmath.V2(30, 40)
	for i := 0; i < 5; i++ {
		e.Tick(0.06, origin, true, testBounds)
	}

	// 60, 120 (fires, carries 20), 80, 140 (fires, carries 40), 100 (fires)
	if len(bursts) != 3 {
		t.Fatalf("expected 3 bursts in 300ms at 100ms interval, got %d", len(bursts))
	}
	if bursts[0] != origin {
		t.Errorf("burst at %v, want pointer origin %v", bursts[0], origin)
	}
}

func TestBurstCadenceHoldsOverLongRun(t *testing.T) {
	cfg := config.EffectConfig{
		Mode:          config.ModeBurst,
		BurstInterval: 100 * time.Millisecond,
		MaxParticles:  10,
	}
	e := New(cfg, vmath.NewFastRand(3))

	bursts := 0
	e.OnBurst(func(vmath.Vec2, int) { bursts++ })

	// 625 frames of 16ms is exactly 10s
	for i := 0; i < 625; i++ {
		e.Tick(0.016, vmath.V2(50, 50), true, testBounds)
	}
	if bursts != 100 {
		t.Fatalf("bursts over 10s at 100ms = %d, want 100", bursts)
	}
}

func TestBurstStallFiresOnce(t *testing.T) {
	cfg := config.EffectConfig{
		Mode:          config.ModeBurst,
		BurstInterval: 100 * time.Millisecond,
		MaxParticles:  100,
	}
	e := New(cfg, vmath.NewFastRand(4))

	bursts := 0
	e.OnBurst(func(vmath.Vec2, int) { bursts++ })

	e.Tick(0.55, vmath.V2(50, 50), true, testBounds)
	if bursts != 1 {
		t.Fatalf("stall of 550ms fired %d bursts, want 1", bursts)
	}
	// 50ms remainder carried: the next 50ms completes an interval
	e.Tick(0.05, vmath.V2(50, 50), true, testBounds)
	if bursts != 2 {
		t.Fatalf("remainder not carried, bursts = %d, want 2", bursts)
	}
}

func TestBurstRandomOriginInUpperViewport(t *testing.T) {
	cfg := config.EffectConfig{
		Mode:          config.ModeBurst,
		RandomOrigin:  true,
		BurstInterval: time.Millisecond,
	}
	e := New(cfg, vmath.NewFastRand(9))

	var got []vmath.Vec2
	e.OnBurst(func(pos vmath.Vec2, _ int) { got = append(got, pos) })

	bounds := vmath.RectWH(100, 30)
	for i := 0; i < 20; i++ {
		e.Tick(0.01, vmath.V2(1, 1), true, bounds)
	}

	if len(got) == 0 {
		t.Fatal("no bursts fired")
	}
	for _, pos := range got {
		if pos.Y > 30*0.66+1e-9 || pos.X < 0 || pos.X >= 100 {
			t.Errorf("random origin %v outside upper viewport", pos)
		}
	}
}

func TestBurstWithoutBoundsOrOriginSkips(t *testing.T) {
	cfg := config.EffectConfig{Mode: config.ModeBurst, BurstInterval: time.Millisecond}
	e := New(cfg, vmath.NewFastRand(9))
	if n := e.Tick(1, vmath.Vec2{}, false, vmath.Rect{}); n != 0 {
		t.Errorf("spawned %d with nowhere to burst", n)
	}
}

func TestEdgeSpawnHeadsInward(t *testing.T) {
	cfg := config.EffectConfig{
		Mode:         config.ModeEdge,
		SpawnRate:    20,
		MaxParticles: 100,
		Edges:        []string{config.EdgeBottom},
	}
	e := New(cfg, vmath.NewFastRand(13))
	bounds := vmath.RectWH(80, 24)

	e.Tick(0, vmath.Vec2{}, false, bounds)
	if e.Len() != 20 {
		t.Fatalf("expected 20 edge particles, got %d", e.Len())
	}
	for _, p := range e.Particles() {
		if p.Pos.Y != 24 {
			t.Errorf("bottom-edge particle spawned at y=%v", p.Pos.Y)
		}
		if p.Vel.Y >= 0 {
			t.Errorf("bottom-edge particle not heading inward: vel=%v", p.Vel)
		}
		if !p.Vel.Finite() {
			t.Errorf("non-finite velocity %v", p.Vel)
		}
	}
}

func TestReset(t *testing.T) {
	e := New(config.EffectConfig{SpawnRate: 4}, vmath.NewFastRand(2))
	e.Tick(0, vmath.V2(5, 5), true, testBounds)
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Reset left %d particles", e.Len())
	}
}
