package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/wire"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate results over every recorded file",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := wire.StatsService().Summary(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read outcome store: %w", err)
		}

		if summary.Total == 0 {
			fmt.Println("No files recorded yet")
			return nil
		}

		fmt.Printf("Recorded files:  %d\n", summary.Total)
		fmt.Printf("  Compressed:    %d\n", summary.Succeeded)
		fmt.Printf("  Skipped/failed: %d\n", summary.Failed)
		fmt.Printf("  Space saved:   %s\n", humanize.Bytes(uint64(summary.SavedKB*1024)))
		if summary.FirstRecord != "" {
			fmt.Printf("  First record:  %s\n", summary.FirstRecord)
			fmt.Printf("  Latest record: %s\n", summary.LatestRecord)
		}

		if len(summary.ByReason) > 0 {
			fmt.Println("\nBy reason:")
			reasons := make([]string, 0, len(summary.ByReason))
			for name := range summary.ByReason {
				reasons = append(reasons, name)
			}
			sort.Strings(reasons)
			for _, name := range reasons {
				fmt.Printf("  %-28s %d\n", name, summary.ByReason[name])
			}
		}
		return nil
	},
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return statsCmd
}
