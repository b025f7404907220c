package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// refresh: one scheduled-style run.
func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run every analyzer, persist the results and publish the digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "refreshed")
			return nil
		},
	}
}
