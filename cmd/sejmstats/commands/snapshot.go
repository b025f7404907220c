package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yx-aesthete/sejm-info/internal/infrastructure/source"
)

// snapshot <path>: dump upstream records for use with source.kind=file.
func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <path>",
		Short: "Save processes, votings and prints to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := source.WriteSnapshot(cmd.Context(), appCtx.Source(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d processes, %d votings, %d prints to %s\n",
				len(snap.Processes), len(snap.Votings), len(snap.Prints), args[0])
			return nil
		},
	}
}
