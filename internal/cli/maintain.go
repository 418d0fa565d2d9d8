package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/wire"
)

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Maintain the outcome ledger",
	Long: `Maintenance operations on the durable outcome ledger. Records are
never touched by a normal run; these commands are the only way to
remove or rewrite them.`,
}

var maintainClearFailedCmd = &cobra.Command{
	Use:   "clear-failed",
	Short: "Delete failure records so those files can be attempted again",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := wire.OutcomeRepo().DeleteFailed(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear failed records: %w", err)
		}
		if removed == 0 {
			fmt.Println("No failure records found")
			return nil
		}
		fmt.Printf("✓ Deleted %d failure records\n", removed)
		return nil
	},
}

var maintainNormalizeCmd = &cobra.Command{
	Use:   "normalize-paths",
	Short: "Rewrite stored paths to canonical form and drop duplicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, removed, err := wire.OutcomeRepo().NormalizePaths(context.Background())
		if err != nil {
			return fmt.Errorf("failed to normalize paths: %w", err)
		}
		fmt.Printf("✓ Rewrote %d paths, removed %d duplicates\n", updated, removed)
		return nil
	},
}

func init() {
	maintainCmd.AddCommand(maintainClearFailedCmd)
	maintainCmd.AddCommand(maintainNormalizeCmd)
}

// MaintainCmd returns the maintain command
func MaintainCmd() *cobra.Command {
	return maintainCmd
}
