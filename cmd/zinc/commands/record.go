package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <project>",
		Short: "Record the current options as the project's analysis options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := c.app.Record(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: recorded %s\n", record.Project, record.Fingerprint)
			return nil
		},
	}
}
