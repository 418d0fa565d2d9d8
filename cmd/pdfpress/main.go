package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/cli"
	"github.com/example/pdfpress/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pdfpress",
		Short:   "pdfpress - batch PDF compression with durable bookkeeping",
		Version: version.String(),
		Long: `pdfpress walks a directory tree and compresses every PDF it finds
through Ghostscript or Tesseract OCR backends. Each file is recorded
exactly once, so repeated runs never reprocess the same document.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.MaintainCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
