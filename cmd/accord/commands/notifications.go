package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"accord/internal/app"
)

// notifications: drain the queue the migration fills.
func (c *cli) notificationsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Drain queued user notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.wire.Queue == nil {
				return app.ErrLocalOnly
			}
			notes, err := c.wire.Queue.Drain(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, n := range notes {
				fmt.Fprintf(out, "%s\t%s\t%s\n", n.UserID, n.Kind, n.Title)
			}
			left, err := c.wire.Queue.Len(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d delivered, %d left\n", len(notes), left)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum to drain (0 for all)")
	return cmd
}
