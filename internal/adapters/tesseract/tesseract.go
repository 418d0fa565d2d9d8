// Package tesseract runs the OCR pipeline: rasterize with pdftoppm,
// recognize each page with Tesseract, merge the page PDFs back into one
// document with pdfcpu.
package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// DefaultDPI is the rasterization resolution for OCR input.
const DefaultDPI = 150

// DefaultLanguages are tried when a profile does not name any.
var DefaultLanguages = []string{"rus", "eng"}

// OCRTransformer produces a searchable PDF from a scanned one.
type OCRTransformer struct {
	dpi int

	// runCommand is swapped in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
	// mergePDFs is swapped in tests.
	mergePDFs func(inFiles []string, outFile string) error
}

// NewOCR creates the Tesseract OCR transformer
func NewOCR() *OCRTransformer {
	t := &OCRTransformer{dpi: DefaultDPI}
	t.runCommand = runCommand
	t.mergePDFs = mergePDFs
	return t
}

func (t *OCRTransformer) Name() string {
	return "tesseract-ocr"
}

// Available checks that tesseract and pdftoppm respond
func (t *OCRTransformer) Available() error {
	if err := exec.Command("tesseract", "--version").Run(); err != nil {
		return fmt.Errorf("tesseract not found: %w", err)
	}
	if err := exec.Command("pdftoppm", "-v").Run(); err != nil {
		return fmt.Errorf("pdftoppm not found: %w", err)
	}
	return nil
}

// Transform rasterizes the input, recognizes each page and merges the
// per-page PDFs into outputPath. Pages that fail recognition are
// dropped; losing every page is an error.
func (t *OCRTransformer) Transform(ctx context.Context, inputPath, outputPath string, params secondary.TransformParams) error {
	runCtx := ctx
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp("", "pdfpress_ocr_")
	if err != nil {
		return fmt.Errorf("failed to create OCR workspace: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	images, err := t.rasterize(runCtx, inputPath, workDir, params)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no pages rasterized from %s", inputPath)
	}

	languages := params.Languages
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	langArg := strings.Join(languages, "+")

	var pagePDFs []string
	for _, img := range images {
		if err := runCtx.Err(); err != nil {
			return t.classify(err, params)
		}
		base := strings.TrimSuffix(img, filepath.Ext(img))
		err := t.runCommand(runCtx, "tesseract", img, base,
			"-l", langArg, "--psm", "1", "--oem", "3", "pdf")
		if err != nil {
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return t.classify(runCtx.Err(), params)
			}
			// A single bad page does not sink the document.
			continue
		}
		pagePDFs = append(pagePDFs, base+".pdf")
	}
	if len(pagePDFs) == 0 {
		return fmt.Errorf("recognition failed on every page of %s", inputPath)
	}

	if err := t.mergePDFs(pagePDFs, outputPath); err != nil {
		return fmt.Errorf("failed to merge recognized pages: %w", err)
	}
	return nil
}

// rasterize turns the PDF into per-page PNGs and returns them in page order.
func (t *OCRTransformer) rasterize(ctx context.Context, inputPath, workDir string, params secondary.TransformParams) ([]string, error) {
	prefix := filepath.Join(workDir, "page")
	err := t.runCommand(ctx, "pdftoppm",
		"-r", fmt.Sprintf("%d", t.dpi), "-png", inputPath, prefix)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, t.classify(ctx.Err(), params)
		}
		return nil, fmt.Errorf("failed to rasterize %s: %w", inputPath, err)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to list rasterized pages: %w", err)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(images)
	return images, nil
}

func (t *OCRTransformer) classify(err error, params secondary.TransformParams) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("OCR after %s: %w", params.Timeout, secondary.ErrTimeout)
	}
	return err
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s failed: %s: %w", name, msg, err)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

func mergePDFs(inFiles []string, outFile string) error {
	return api.MergeCreateFile(inFiles, outFile, false, nil)
}

var _ secondary.Transformer = (*OCRTransformer)(nil)
