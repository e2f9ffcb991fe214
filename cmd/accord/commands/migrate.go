package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"accord/internal/app"
	"accord/internal/domain"
	"accord/internal/services/migration"
)

// migrate-keys --as <admin>: repair drifted public keys and print the summary.
func (c *cli) migrateKeysCmd() *cobra.Command {
	var (
		as          string
		dryRun      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "migrate-keys",
		Short: "Repair stored public keys that drifted from the derived value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			caller := domain.UserID(as)
			opts := c.wire.MigrationOptions(dryRun, concurrency)

			var (
				sum domain.MigrationSummary
				err error
			)
			if c.wire.Relay != nil {
				sum, err = c.wire.Relay.MigrateKeys(ctx, c.wire.Config.AdminToken, caller, opts)
			} else {
				sum, err = c.migrateLocal(cmd, caller, opts)
			}
			if err != nil {
				if sum.Total > 0 {
					// Partial run: show what was already changed.
					_ = printJSON(cmd.OutOrStdout(), sum)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "admin user running the migration")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "profiles processed at once (default from config)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func (c *cli) migrateLocal(cmd *cobra.Command, caller domain.UserID, opts domain.MigrationOptions) (domain.MigrationSummary, error) {
	if c.wire.Migration == nil {
		return domain.MigrationSummary{}, app.ErrLocalOnly
	}
	profile, err := c.wire.Profiles.GetProfile(cmd.Context(), caller)
	if err != nil {
		return domain.MigrationSummary{}, fmt.Errorf("load caller: %w", err)
	}
	if err := migration.Authorize(profile); err != nil {
		return domain.MigrationSummary{}, err
	}
	return c.wire.Migration.Run(cmd.Context(), opts)
}
