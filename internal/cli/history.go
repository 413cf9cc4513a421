package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Harshodai/askmukthiguru/internal/chat"
)

func newHistoryCmd(a *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "List conversations, or print one conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				convs, err := store.Conversations(ctx)
				if err != nil {
					return fmt.Errorf("read conversations: %w", err)
				}
				if len(convs) == 0 {
					fmt.Fprintln(out, "no conversations yet")
					return nil
				}
				for _, c := range convs {
					title := c.Title
					if title == "" {
						title = "(untitled)"
					}
					fmt.Fprintf(out, "%s  %-14s  %s\n", c.ID, humanize.Time(c.UpdatedAt), title)
				}
				return nil
			}

			conv, err := store.Conversation(ctx, args[0])
			if err != nil {
				return fmt.Errorf("read conversation: %w", err)
			}
			if conv == nil {
				return fmt.Errorf("conversation %q not found", args[0])
			}
			msgs, err := store.Messages(ctx, conv.ID)
			if err != nil {
				return fmt.Errorf("read messages: %w", err)
			}

			fmt.Fprintf(out, "%s\n\n", conv.Title)
			for _, m := range msgs {
				who := "You"
				if m.Role == chat.RoleAssistant {
					who = "Guru"
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), who, m.Content)
			}
			return nil
		},
	}
}
