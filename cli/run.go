package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/sparkfx/audio"
	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/core"
	"github.com/lixenwraith/sparkfx/effect"
	"github.com/lixenwraith/sparkfx/host"
	"github.com/lixenwraith/sparkfx/render"
	"github.com/lixenwraith/sparkfx/status"
)

// newScreen opens the terminal; tests substitute a simulation screen
var newScreen = tcell.NewScreen

// openAudio opens the speaker; tests substitute a recorder
var openAudio = audio.Open

// runFlags are per-invocation overrides applied to every mounted effect
type runFlags struct {
	intensity string
	palette   string
	seed      uint64
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [preset...]",
		Short: "Run effects until q, Esc or Ctrl-C",
		Long: "Run mounts each named preset as its own layer, later presets on top.\n" +
			"Without arguments the effects list of the config file is used, or cursor-trail when it is empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			effects, err := selectEffects(a.cfg, args, f)
			if err != nil {
				return err
			}
			screen, err := newScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			return runEffects(cmd.Context(), a.cfg, effects, screen)
		},
	}
	cmd.Flags().StringVarP(&f.intensity, "intensity", "i", "", "population scale for every effect: low, medium, high")
	cmd.Flags().StringVarP(&f.palette, "palette", "p", "", "palette name or comma-separated #rrggbb stops, young to old")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for reproducible runs (0 picks one)")
	cmd.Flags().Bool("sound", false, "crackle on bursts")
	cmd.Flags().Bool("hud", false, "show live counters on the top row")
	cmd.Flags().Bool("mouse", true, "track the mouse pointer")
	return cmd
}

// selectEffects builds effect configs from presets named on the command line, else from the config file
func selectEffects(cfg *config.Config, args []string, f *runFlags) ([]config.EffectConfig, error) {
	var effects []config.EffectConfig
	switch {
	case len(args) > 0:
		for _, name := range args {
			c, err := config.Preset(name)
			if err != nil {
				return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.PresetNames(), ", "))
			}
			effects = append(effects, c)
		}
	case len(cfg.Effects) > 0:
		var err error
		if effects, err = cfg.EffectConfigs(); err != nil {
			return nil, err
		}
	default:
		c, err := config.Preset(config.PresetCursorTrail)
		if err != nil {
			return nil, err
		}
		effects = append(effects, c)
	}

	for i := range effects {
		c := &effects[i]
		if f.intensity != "" {
			c.Intensity = config.Intensity(f.intensity)
		}
		if f.palette != "" {
			c.Palette = strings.Split(f.palette, ",")
		}
		if f.seed != 0 {
			c.Seed = f.seed + uint64(i)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("effect %q: %w", c.Name, err)
		}
	}
	return effects, nil
}

// runEffects mounts effects on a stage over screen and runs it until quit, signal or ctx cancel
// A single effect failing to mount is logged and skipped
func runEffects(ctx context.Context, cfg *config.Config, effects []config.EffectConfig, screen tcell.Screen) error {
	logger := core.GetLogger()

	bg, err := render.ParseHex(cfg.Stage.Background)
	if err != nil {
		return fmt.Errorf("stage.background: %w", err)
	}

	reg := status.NewRegistry()
	var mounts []*effect.Mount
	opts := []host.Option{
		host.WithLogger(logger.Named("stage")),
		host.WithBackground(bg),
		host.WithFrameInterval(cfg.Stage.FrameInterval),
	}
	if cfg.Stage.HUD {
		opts = append(opts, host.WithHUD(func() string { return hudLine(reg, mounts) }))
	}

	stage, err := host.New(screen, opts...)
	if err != nil {
		return err
	}
	defer stage.Close()
	if cfg.Stage.Mouse {
		stage.EnableMouse()
	}

	var player audio.Player = audio.Nop{}
	if cfg.Audio.Enabled {
		player = openAudio(cfg.Audio.Volume, logger.Named("audio"))
	}
	defer player.Close()

	mounted := 0
	for _, c := range effects {
		m := effect.NewMount(stage,
			effect.WithLogger(logger),
			effect.WithMetrics(reg),
			effect.WithAudio(player),
		)
		defer m.Close()
		mounts = append(mounts, m)
		if err := m.Apply(c); err != nil {
			logger.Warn("effect skipped", zap.String("effect", c.Name), zap.Error(err))
			continue
		}
		mounted++
	}
	if mounted == 0 && len(effects) > 0 {
		return errors.New("no effect could be mounted")
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// Quit keys end Run without cancelling, so release the watcher here
		defer cancel()
		return stage.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if sigCtx.Err() != nil && ctx.Err() == nil {
			logger.Info("signal received, shutting down")
		}
		return nil
	})
	return g.Wait()
}

// hudLine renders "name k=v ..." for each live effect, separated by " | "
func hudLine(reg *status.Registry, mounts []*effect.Mount) string {
	var parts []string
	for _, m := range mounts {
		e := m.Current()
		if e == nil || !e.Active() {
			continue
		}
		parts = append(parts, e.Name()+" "+reg.Summary(e.MetricPrefix()))
	}
	return strings.Join(parts, " | ")
}
