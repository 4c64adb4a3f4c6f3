// Package cli is the sparkfx command line: cobra commands over viper-loaded configuration.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lixenwraith/sparkfx/config"
	"github.com/lixenwraith/sparkfx/core"
)

// Version is set at build time: -ldflags "-X github.com/lixenwraith/sparkfx/cli.Version=1.2.0"
var Version = "0.1.0"

// app carries state from the root pre-run into subcommands
type app struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

// flagKeys maps command flags onto config keys; flags missing from a command are skipped
var flagKeys = map[string]string{
	"hud":   "stage.hud",
	"mouse": "stage.mouse",
	"sound": "audio.enabled",
}

// newRootCmd builds an isolated command tree
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sparkfx",
		Short:         "Glowing particle effects for the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if a.debug {
				v.Set("logger.enabled", true)
				v.Set("logger.level", "debug")
			}

			cfg, err := config.Load(v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			core.InitializeLogger(cfg.Logger)
			core.GetLogger().Info("starting sparkfx", zap.String("version", Version), zap.String("command", cmd.Name()))
			return nil
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./sparkfx.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write debug logs to the configured log file")

	root.AddCommand(newRunCmd(a), newPresetsCmd(), newVersionCmd())
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Execute runs the command line; the returned error has already been logged
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		core.GetLogger().Error("command failed", zap.Error(err))
	}
	core.Sync()
	return err
}
