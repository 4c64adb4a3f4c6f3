package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/lixenwraith/sparkfx/parameter"
	"github.com/lixenwraith/sparkfx/parameter/visual"
)

// EnvPrefix is the environment variable prefix bound by Load
const EnvPrefix = "SPARKFX"

// Config is the application configuration
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Stage   StageConfig   `mapstructure:"stage" yaml:"stage"`
	Audio   AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Effects []EffectEntry `mapstructure:"effects" yaml:"effects"`
}

// LoggerConfig controls file logging; the terminal owns stdout so there is no console sink
type LoggerConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// StageConfig controls the terminal host
type StageConfig struct {
	Background    string        `mapstructure:"background" yaml:"background"`
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	Mouse         bool          `mapstructure:"mouse" yaml:"mouse"`
	HUD           bool          `mapstructure:"hud" yaml:"hud"`
}

// AudioConfig controls the burst sound cue
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Volume  float64 `mapstructure:"volume" yaml:"volume"`
}

// EffectEntry names a preset and overrides any EffectConfig field by its mapstructure key
type EffectEntry struct {
	Name      string         `mapstructure:"name" yaml:"name"`
	Preset    string         `mapstructure:"preset" yaml:"preset"`
	Overrides map[string]any `mapstructure:",remain" yaml:",inline"`
}

// Build layers the entry's overrides over its preset (or defaults when no preset is named)
// The result is unresolved; mounting resolves it
func (e EffectEntry) Build() (EffectConfig, error) {
	cfg := Default()
	if e.Preset != "" {
		p, err := Preset(e.Preset)
		if err != nil {
			return EffectConfig{}, err
		}
		cfg = p
	}

	if len(e.Overrides) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return EffectConfig{}, fmt.Errorf("building decoder: %w", err)
		}
		if err := dec.Decode(e.Overrides); err != nil {
			return EffectConfig{}, fmt.Errorf("decoding overrides for %q: %w", e.label(), err)
		}
	}

	if e.Name != "" {
		cfg.Name = e.Name
	}
	if err := cfg.Validate(); err != nil {
		return EffectConfig{}, fmt.Errorf("effect %q: %w", e.label(), err)
	}
	return cfg, nil
}

func (e EffectEntry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Preset
}

// SetDefaults registers default values for every application key
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.enabled", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "logs/sparkfx.log")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	// -- Stage --
	v.SetDefault("stage.background", visual.StageBackground)
	v.SetDefault("stage.frame_interval", parameter.FrameInterval)
	v.SetDefault("stage.mouse", true)
	v.SetDefault("stage.hud", false)

	// -- Audio --
	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0.6)
}

// NewDefaultConfig returns the configuration with only defaults applied
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads defaults, an optional config file and SPARKFX_* environment variables into v
// A missing default-location file is not an error; an explicitly named missing file is
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sparkfx")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks application-level values; per-effect values are checked by EffectEntry.Build
func (c *Config) Validate() error {
	if c.Stage.FrameInterval <= 0 {
		return fmt.Errorf("stage.frame_interval must be positive")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be in [0,1], got %g", c.Audio.Volume)
	}
	if c.Logger.Enabled && c.Logger.File == "" {
		return fmt.Errorf("logger.file is required when logging is enabled")
	}
	for i, e := range c.Effects {
		if e.Preset == "" && len(e.Overrides) == 0 {
			return fmt.Errorf("effects[%d]: needs a preset or explicit fields", i)
		}
	}
	return nil
}

// EffectConfigs builds every configured effect in order
func (c *Config) EffectConfigs() ([]EffectConfig, error) {
	out := make([]EffectConfig, 0, len(c.Effects))
	for _, e := range c.Effects {
		cfg, err := e.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
