package cli

import (
	"github.com/spf13/cobra"

	"github.com/Harshodai/askmukthiguru/internal/mcpserver"
)

func newMCPCmd(a *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve meditation history and conversations over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			return mcpserver.Serve(store, Version)
		},
	}
}
