package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/wire"
)

var runCmd = &cobra.Command{
	Use:   "run [directory]",
	Short: "Compress every PDF under a directory with the active profile",
	Long: `Walks the directory tree, admits each PDF through the configured
checks and compresses it with the active profile's backend. Every file
gets exactly one durable outcome record; files seen in an earlier run
are skipped.

While a run is in progress:
  s<Enter>  skip the file currently being processed
  q<Enter>  stop the whole run
Ctrl-C also stops the run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		batch := wire.BatchService()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Println("\nstopping run, abandoning the file in progress...")
			batch.Stop()
		}()

		go watchKeys(os.Stdin, batch)

		result, err := batch.Run(context.Background(), primary.RunRequest{
			Root:   args[0],
			DryRun: dryRun,
		})
		if err != nil {
			return err
		}

		printSummary(result)
		return nil
	},
}

// watchKeys reads single-letter commands from the interactive terminal.
func watchKeys(in *os.File, batch primary.BatchService) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "s":
			fmt.Println("skipping current file...")
			batch.SkipCurrent()
		case "q":
			fmt.Println("stopping run, abandoning the file in progress...")
			batch.Stop()
		}
	}
}

func printSummary(result *primary.RunResult) {
	status := "completed"
	if result.Cancelled {
		status = "stopped by user"
	}
	fmt.Println()
	fmt.Printf("Run %s\n", status)
	fmt.Printf("  Files found:  %d\n", result.Stats.Enumerated)
	fmt.Printf("  Visited:      %d\n", result.Stats.Visited)
	fmt.Printf("  Compressed:   %d\n", result.Stats.Succeeded)
	fmt.Printf("  Skipped:      %d\n", result.Stats.Skipped)
	fmt.Printf("  Failed:       %d\n", result.Stats.Failed)
	fmt.Printf("  Space saved:  %s\n", humanize.Bytes(uint64(result.Stats.SavedBytes)))
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "Enumerate and report without transforming anything")
}

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	return runCmd
}
