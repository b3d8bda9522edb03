package cli

import (
	"github.com/Eursukkul/booking-microservice/checkin-service/pkg/database"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(rootOpts.Config)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return errors.Annotate(err, "migrate")
			}
			logger.Infof("schema is up to date")
			return nil
		},
	}
}
