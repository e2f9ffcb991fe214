package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"accord/internal/crypto"
	"accord/internal/domain"
)

// keys <user>: print the derived public key and its fingerprint.
func (c *cli) keysCmd() *cobra.Command {
	var showPrivate bool
	cmd := &cobra.Command{
		Use:   "keys <user>",
		Short: "Print a user's public key and fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := c.wire.Keys.OwnKeys(domain.UserID(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Public key:  %s\n", kp.Public)
			fmt.Fprintf(out, "Fingerprint: %s\n", crypto.Fingerprint(kp.Public))
			if showPrivate {
				fmt.Fprintf(out, "Private key: %s\n", kp.Private.Hex())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "also print the private key")
	return cmd
}

// publish <user>: make the stored public key match the derived one.
func (c *cli) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <user>",
		Short: "Store the correct public key on a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, changed, err := c.wire.Keys.Publish(cmd.Context(), domain.UserID(args[0]))
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", crypto.Fingerprint(key))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "up to date %s\n", crypto.Fingerprint(key))
			}
			return nil
		},
	}
}

// safety-number <me> <peer>: print the number both users compare out of band.
func (c *cli) safetyNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "safety-number <me> <peer>",
		Short: "Print the safety number for a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.wire.Keys.SafetyNumber(cmd.Context(), domain.UserID(args[0]), domain.UserID(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
