package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serve: run the HTTP API until interrupted.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API and run scheduled refreshes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return appCtx.Serve(ctx)
		},
	}
}
