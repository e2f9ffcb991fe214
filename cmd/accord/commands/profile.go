package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"accord/internal/app"
	"accord/internal/crypto"
	"accord/internal/domain"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}
	cmd.AddCommand(c.profileAddCmd(), c.profileListCmd())
	return cmd
}

// profile add <user>: create or update a profile without touching its key.
func (c *cli) profileAddCmd() *cobra.Command {
	var (
		name  string
		admin bool
	)
	cmd := &cobra.Command{
		Use:   "add <user>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user := domain.UserID(args[0])
			if err := user.Validate(); err != nil {
				return err
			}

			if c.wire.Relay != nil {
				if admin {
					return fmt.Errorf("--admin: %w", app.ErrLocalOnly)
				}
				p, err := c.wire.Relay.PutProfile(ctx, user, name, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", p.UserID, p.ID)
				return nil
			}

			p, err := c.wire.Profiles.GetProfile(ctx, user)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				p = domain.Profile{UserID: user}
			case err != nil:
				return err
			}
			if name != "" {
				p.DisplayName = name
			}
			p.IsAdmin = admin
			if err := c.wire.Profiles.SaveProfile(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant admin rights")
	return cmd
}

func (c *cli) profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles with key status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.wire.Profiles == nil {
				return app.ErrLocalOnly
			}
			profiles, err := c.wire.Profiles.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range profiles {
				status := "missing"
				if p.EncryptionPublicKey != "" {
					status = crypto.Fingerprint(p.EncryptionPublicKey)
					if want, err := crypto.ExpectedPublicKey(p.UserID); err != nil || want != p.EncryptionPublicKey {
						status += " (drifted)"
					}
				}
				admin := ""
				if p.IsAdmin {
					admin = " admin"
				}
				fmt.Fprintf(out, "%s\t%s\t%s%s\n", p.UserID, p.DisplayName, status, admin)
			}
			return nil
		},
	}
}
