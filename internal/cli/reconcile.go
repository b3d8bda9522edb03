package cli

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

type reconcileOptions struct {
	EventID string
}

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair attendee counts from registrations",
		Long: `Recount each event's registrations and rewrite its attendee count where
they disagree. Registrations of deleted events are removed. With --event
only that event is recounted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(rootOpts.Config)
			if err != nil {
				return err
			}
			a, err := newApp(rootOpts.Config, db, nil)
			if err != nil {
				return err
			}
			defer a.close()

			var report any
			if opts.EventID != "" {
				report, err = a.reconciler.ReconcileEvent(cmd.Context(), opts.EventID)
			} else {
				report, err = a.reconciler.Sweep(cmd.Context())
			}
			if err != nil {
				return errors.Trace(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&opts.EventID, "event", "", "reconcile a single event")

	return cmd
}
