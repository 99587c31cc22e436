package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <project>",
		Short: "Compare the current options with the last recorded analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.app.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case !status.Previous.IsPresent():
				_, _ = fmt.Fprintf(out, "%s: no recorded analysis\n", status.Project)
			case status.UpToDate():
				_, _ = fmt.Fprintf(out, "%s: up to date (%s)\n", status.Project, status.Current.Fingerprint())
			default:
				_, _ = fmt.Fprintf(out, "%s: options changed: %s\n", status.Project, strings.Join(status.Changed, ", "))
			}
			return nil
		},
	}
}
