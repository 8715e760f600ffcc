package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/speechpractice-server/internal/chatid"
)

func newChatIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat-id <user-a> <user-b>",
		Short: "Print the conversation id shared by two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), chatid.Canonical(args[0], args[1]))
			return nil
		},
	}
}
