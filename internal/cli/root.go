package cli

import (
	"github.com/Eursukkul/booking-microservice/checkin-service/config"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/spf13/cobra"
)

var logger = loggo.GetLogger("eventsvc.cli")

// RootOptions holds global flags and the configuration loaded from them.
type RootOptions struct {
	EnvFile string
	Config  *config.Config
}

// NewRootCommand creates the root command for the eventsvc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "eventsvc",
		Short: "Campus event registration and check-in service",
		Long: `Campus event registration, ticketing and QR check-in.

Runs the HTTP API, applies database migrations, repairs attendee counts
and processes scanned ticket payloads from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return errors.Annotate(err, "load config")
			}
			if err := loggo.ConfigureLoggers(cfg.LogConfig); err != nil {
				return errors.Annotatef(err, "LOG_CONFIG %q", cfg.LogConfig)
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))

	return cmd
}
