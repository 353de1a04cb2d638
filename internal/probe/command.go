package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every probe command.
type RootOptions struct {
	BaseURL string
	Email   string
	Timeout time.Duration
}

type SyncOptions struct {
	*RootOptions
	Password string
	Snapshot bool
}

// NewRootCommand creates the probe CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "End-to-end checks against a running sync server",
	}

	cmd.PersistentFlags().StringVar(&opts.BaseURL, "url", "http://localhost:8080/api/v1", "API base URL")
	cmd.PersistentFlags().StringVarP(&opts.Email, "email", "u", "admin@admin.com", "login email")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")

	cmd.AddCommand(NewSyncCommand(opts))

	return cmd
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Verify that a retried part submission updates instead of duplicating",
		Long: `Verify idempotent sync against a running server.

Creates a client, an order, a vehicle and part P1 at 100.00, then resubmits
P1 at 150.00 with an "(UPDATED)" description and checks the order holds
exactly one P1 carrying the new values.

Example:
  probe sync --url http://localhost:8080/api/v1 -u admin@admin.com`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "login password (prompted when empty)")
	cmd.Flags().BoolVar(&opts.Snapshot, "snapshot", false, "also export the order snapshot and check the archived copy")

	return cmd
}

func runSync(ctx context.Context, opts *SyncOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	password := opts.Password
	if password == "" {
		var err error
		if password, err = getPassword(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	c := NewClient(opts.BaseURL, opts.Timeout)
	if err := c.Login(ctx, opts.Email, password); err != nil {
		return err
	}

	sc := NewScenario(c, out)
	if opts.Snapshot {
		sc.WithSnapshot()
	}
	res, err := sc.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "PASS order %d part %d value %s\n", res.OrderID, res.PartID, res.PartValue)
	return nil
}
