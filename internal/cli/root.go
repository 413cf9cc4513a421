// Package cli implements the mukthiguru command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mukthiguru",
		Short: "Ask Mukthi Guru: a spiritual companion in your terminal",
		Long: "mukthiguru opens a chat with a voice-enabled spiritual guide and the Serene Mind " +
			"breathing meditation. Conversations and meditation sessions are stored locally.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	a, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		rootCmd.AddCommand(newVersionCmd())
		return rootCmd
	}

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runTUI(cmd.Context(), a)
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		a.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatsCmd(a),
		newHistoryCmd(a),
		newDoctorCmd(a),
		newMCPCmd(a),
	)

	return rootCmd
}
