package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"accord/internal/domain"
)

// send <from> <to> <message>: encrypt and store a message.
func (c *cli) sendCmd() *cobra.Command {
	var kind, match string
	cmd := &cobra.Command{
		Use:   "send <from> <to> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := c.wire.Chat.Send(cmd.Context(), domain.SendRequest{
				From:      domain.UserID(args[0]),
				To:        domain.UserID(args[1]),
				MatchID:   domain.MatchID(match),
				Kind:      domain.MessageKind(kind),
				Plaintext: args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", msg.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(domain.MessageText), "message kind: text, voice or image")
	cmd.Flags().StringVar(&match, "match", "", "match ID the conversation belongs to")
	return cmd
}

// read <me> <peer>: print the decrypted conversation.
func (c *cli) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <me> <peer>",
		Short: "Decrypt and print a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := c.wire.Chat.Conversation(cmd.Context(), domain.UserID(args[0]), domain.UserID(args[1]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "no messages")
				return nil
			}
			for _, m := range msgs {
				tag := ""
				switch {
				case m.Failed:
					tag = " [!]"
				case m.Legacy:
					tag = " [unencrypted]"
				}
				fmt.Fprintf(out, "%s %s%s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.From, tag, m.Plaintext)
			}
			return nil
		},
	}
}
