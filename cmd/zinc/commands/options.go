package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the resolved incremental options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.app.Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, opts.String())
			_, _ = fmt.Fprintf(out, "fingerprint: %s\n", opts.Fingerprint())
			_, _ = fmt.Fprintf(out, "effective recompileOnMacroDef: %t\n", opts.EffectiveRecompileOnMacroDef())
			return nil
		},
	}
}
