package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/sparkfx/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in effect presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tOVERLAY\tMAX\tSOUND")
			for _, name := range config.PresetNames() {
				c, err := config.Preset(name)
				if err != nil {
					return err
				}
				c = c.Resolve()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n", name, c.Mode, c.Overlay, c.MaxParticles, c.Sound)
			}
			return w.Flush()
		},
	}
}
