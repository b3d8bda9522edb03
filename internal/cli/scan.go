package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/scanner"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	Operator string
}

func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Check in decoded QR payloads read from stdin",
		Long: `Read one decoded QR payload per line from stdin and print the check-in
outcome for each. The operator must be a faculty or admin user.`,
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

			operator, err := a.users.GetUser(cmd.Context(), opts.Operator)
			if err != nil {
				return errors.Annotatef(err, "operator %q", opts.Operator)
			}
			sess := session.New(operator.ID, operator.Role)
			if !sess.CanManageEvents() {
				return errors.Errorf("operator %q has role %s and cannot run check-in", operator.ID, operator.Role)
			}

			return runScan(cmd.Context(), scanner.New(a.tickets.CheckIn), sess, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Operator, "operator", "", "user id of the scanning operator")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

// runScan feeds each non-blank line of in through sc and writes one outcome
// line per payload to out. Store failures are reported inline and scanning
// continues.
func runScan(ctx context.Context, sc *scanner.Scanner, sess session.Session, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)
	lines.Buffer(make([]byte, 0, 4096), 64*1024)
	for lines.Scan() {
		payload := strings.TrimSpace(lines.Text())
		if payload == "" {
			continue
		}
		outcome, err := sc.Scan(ctx, sess, payload)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Trace(ctx.Err())
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, outcome)
	}
	if err := lines.Err(); err != nil {
		return errors.Annotate(err, "read payloads")
	}

	stats := sc.Stats()
	logger.Infof("processed %d scans", stats.Scans)
	return nil
}
