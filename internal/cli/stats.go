package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show Serene Mind meditation totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			stats, err := store.MeditationStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("read meditation stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sessions:      %s (%s completed)\n",
				humanize.Comma(int64(stats.TotalSessions)), humanize.Comma(int64(stats.CompletedSessions)))
			fmt.Fprintf(out, "practice:      %d min\n", stats.TotalMinutes())
			fmt.Fprintf(out, "breath cycles: %s\n", humanize.Comma(int64(stats.TotalCycles)))
			fmt.Fprintf(out, "streak:        %s\n", plural(stats.StreakDays, "day"))
			if stats.LastSessionAt != nil {
				fmt.Fprintf(out, "last session:  %s\n", humanize.Time(*stats.LastSessionAt))
			} else {
				fmt.Fprintln(out, "last session:  never")
			}
			return nil
		},
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
