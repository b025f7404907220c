package commands

import (
	"github.com/spf13/cobra"

	"github.com/yx-aesthete/sejm-info/internal/app"
	"github.com/yx-aesthete/sejm-info/internal/config"
	"github.com/yx-aesthete/sejm-info/internal/logging"
)

var (
	configPath string
	logLevel   string
	appCtx     *app.Application
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sejmstats",
		Short:        "Statistics over Polish legislative processes, votings and prints",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if configPath != "" {
				cfg = config.LoadFrom(configPath)
			} else {
				cfg = config.Load()
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			appCtx = application
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $SEJM_ANALYTICS_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(serveCmd(), analyzeCmd(), refreshCmd(), snapshotCmd())
	return root
}
