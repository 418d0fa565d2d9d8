package cli

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/adapters/ghostscript"
	"github.com/example/pdfpress/internal/db"
	"github.com/example/pdfpress/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the pdfpress environment",
		Long: `Checks that pdfpress can actually run:

- database reachable and seeded
- Ghostscript installed
- Tesseract and pdftoppm installed (needed for OCR backends only)

Examples:
  pdfpress doctor          # Run full health check
  pdfpress doctor --quiet  # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkDatabase(),
				checkTool("Ghostscript", ghostscript.Binary(), "--version"),
				checkOptionalTool("Tesseract", "tesseract", "--version"),
				checkOptionalTool("pdftoppm", "pdftoppm", "-v"),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				for _, r := range results {
					fmt.Printf("%s %s\n", r.Status, r.Name)
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("    %s\n", r.Details)
					}
				}
				printBackendCatalog()
			}

			if hasErrors {
				return fmt.Errorf("environment has issues")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Exit code only, no output")
	return cmd
}

func checkDatabase() CheckResult {
	if _, err := db.GetDB(); err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: err.Error()}
	}
	path, _ := db.GetDBPath()
	return CheckResult{Name: fmt.Sprintf("Database (%s)", path), Status: "✓"}
}

func checkTool(name, binary string, arg string) CheckResult {
	if err := exec.Command(binary, arg).Run(); err != nil {
		return CheckResult{
			Name:    name,
			Status:  "✗",
			Details: fmt.Sprintf("%s not found; install it to compress PDFs", binary),
		}
	}
	return CheckResult{Name: name, Status: "✓"}
}

func checkOptionalTool(name, binary string, arg string) CheckResult {
	if err := exec.Command(binary, arg).Run(); err != nil {
		return CheckResult{
			Name:    name,
			Status:  "⚠",
			Details: fmt.Sprintf("%s not found; OCR backends will be unavailable", binary),
		}
	}
	return CheckResult{Name: name, Status: "✓"}
}

func printBackendCatalog() {
	backends, err := wire.CatalogRepo().Backends(context.Background())
	if err != nil {
		return
	}
	fmt.Println("\nBackends:")
	for _, b := range backends {
		ocr := ""
		if b.SupportsOCR {
			ocr = " (OCR)"
		}
		fmt.Printf("  %d: %s%s - %s\n", b.ID, b.Name, ocr, b.Description)
	}
}
