package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
)

func TestResolve_Defaults(t *testing.T) {
	cfg := EffectConfig{}.Resolve()

	assert.Equal(t, parameter.DefaultMaxParticles, cfg.MaxParticles)
	assert.Equal(t, 0.0, cfg.SpawnRate, "explicit zero spawn rate is kept")
	assert.InDelta(t, parameter.DefaultDecay, cfg.Decay, 1e-12)
	assert.InDelta(t, parameter.DefaultFriction, cfg.Friction, 1e-12)
	assert.Equal(t, ModeContinuous, cfg.Mode)
	assert.Equal(t, IntensityMedium, cfg.Intensity)
	assert.Equal(t, visual.Palettes[visual.DefaultPalette], cfg.Palette)
	assert.Equal(t, ClearHard, cfg.Clear)
	assert.Equal(t, OverlayNone, cfg.Overlay)
	assert.Len(t, cfg.Edges, 4)
	assert.True(t, cfg.Resolved())
	assert.True(t, cfg.Enabled())
}

func TestResolve_ClampsOutOfRange(t *testing.T) {
	cfg := EffectConfig{
		MaxParticles: -3,
		SpawnRate:    -1,
		Decay:        1.7,
		Friction:     -0.5,
		Mode:         "sideways",
		Intensity:    "extreme",
		Speed:        Range{Min: 9, Max: 3},
		Palette:      []string{"nope", "#00ff00"},
	}.Resolve()

	assert.Equal(t, parameter.DefaultMaxParticles, cfg.MaxParticles)
	assert.Equal(t, 0.0, cfg.SpawnRate)
	assert.Equal(t, 1.0, cfg.Decay)
	assert.InDelta(t, parameter.DefaultFriction, cfg.Friction, 1e-12)
	assert.Equal(t, ModeContinuous, cfg.Mode)
	assert.Equal(t, IntensityMedium, cfg.Intensity)
	assert.Equal(t, Range{Min: 3, Max: 9}, cfg.Speed)
	assert.Equal(t, []string{"#00ff00"}, cfg.Palette)
}

func TestResolve_IntensityAppliedOnce(t *testing.T) {
	cfg := EffectConfig{MaxParticles: 100, SpawnRate: 4, Intensity: IntensityHigh}.Resolve()
	require.Equal(t, 150, cfg.MaxParticles)
	require.InDelta(t, 6.0, cfg.SpawnRate, 1e-12)

	again := cfg.Resolve()
	assert.Equal(t, cfg.MaxParticles, again.MaxParticles, "second resolve must not rescale")
	assert.Equal(t, cfg.SpawnRate, again.SpawnRate)

	low := EffectConfig{MaxParticles: 1, Intensity: IntensityLow}.Resolve()
	assert.Equal(t, 1, low.MaxParticles, "population never scales below one")
}

func TestResolve_NamedPaletteExpands(t *testing.T) {
	cfg := EffectConfig{Palette: []string{"ice"}}.Resolve()
	assert.Equal(t, visual.PaletteIce, cfg.Palette)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, EffectConfig{}.Validate())
	assert.Error(t, EffectConfig{Decay: 2}.Validate())
	assert.Error(t, EffectConfig{Mode: "spiral"}.Validate())
	assert.Error(t, EffectConfig{Palette: []string{"#zzzzzz"}}.Validate())
	assert.NoError(t, EffectConfig{Palette: []string{"gold", "#fff"}}.Validate())
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	require.Len(t, names, 8)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			require.NoError(t, err)
			assert.Equal(t, name, cfg.Name)
			assert.NoError(t, cfg.Validate())
			assert.False(t, cfg.Resolved(), "presets stay overridable")

			r := cfg.Resolve()
			assert.Greater(t, r.MaxParticles, 0)
		})
	}

	_, err := Preset("confetti")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestEffectEntryBuild(t *testing.T) {
	entry := EffectEntry{
		Name:   "hero",
		Preset: PresetFireworks,
		Overrides: map[string]any{
			"burst_size":     "12",
			"burst_interval": "250ms",
			"palette":        []any{"gold"},
			"intensity":      "low",
		},
	}

	cfg, err := entry.Build()
	require.NoError(t, err)
	assert.Equal(t, "hero", cfg.Name)
	assert.Equal(t, 12, cfg.BurstSize)
	assert.Equal(t, 250*time.Millisecond, cfg.BurstInterval)
	assert.Equal(t, IntensityLow, cfg.Intensity)
	assert.Equal(t, ModeBurst, cfg.Mode, "preset fields survive overrides")

	_, err = EffectEntry{Preset: "nope"}.Build()
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = EffectEntry{Preset: PresetAura, Overrides: map[string]any{"decay": 4}}.Build()
	assert.Error(t, err)
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.Logger.Enabled)
	assert.Equal(t, parameter.FrameInterval, cfg.Stage.FrameInterval)
	assert.True(t, cfg.Stage.Mouse)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparkfx.yaml")
	content := `
stage:
  hud: true
audio:
  enabled: true
  volume: 0.3
effects:
  - preset: cursor-trail
  - name: sky
    preset: fireworks
    gravity: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.True(t, cfg.Stage.HUD)
	assert.True(t, cfg.Audio.Enabled)
	require.Len(t, cfg.Effects, 2)

	effects, err := cfg.EffectConfigs()
	require.NoError(t, err)
	assert.Equal(t, PresetCursorTrail, effects[0].Name)
	assert.Equal(t, "sky", effects[1].Name)
	assert.Equal(t, 4.0, effects[1].Gravity)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SPARKFX_STAGE_HUD", "true")
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.Stage.HUD)
}
