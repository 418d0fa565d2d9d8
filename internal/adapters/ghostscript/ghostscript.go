// Package ghostscript shells out to Ghostscript for PDF compression.
package ghostscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// Variant selects which flag set the transformer passes to Ghostscript.
type Variant int

const (
	// VariantFull uses the quality preset plus explicit downsample
	// resolutions per level.
	VariantFull Variant = iota
	// VariantStandard uses the quality preset only.
	VariantStandard
	// VariantImageOnly downsamples raster content without a preset.
	VariantImageOnly
)

// Binary returns the Ghostscript executable name for this platform
func Binary() string {
	if runtime.GOOS == "windows" {
		return "gswin64c"
	}
	return "gs"
}

// Transformer compresses PDFs by rewriting them through Ghostscript.
type Transformer struct {
	variant Variant
	binary  string

	// runCommand is swapped in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// New creates a Ghostscript transformer for the given variant
func New(variant Variant) *Transformer {
	t := &Transformer{variant: variant, binary: Binary()}
	t.runCommand = t.execute
	return t
}

func (t *Transformer) Name() string {
	switch t.variant {
	case VariantStandard:
		return "ghostscript-standard"
	case VariantImageOnly:
		return "ghostscript-image-only"
	}
	return "ghostscript"
}

// Available checks that the Ghostscript binary responds
func (t *Transformer) Available() error {
	if err := exec.Command(t.binary, "--version").Run(); err != nil {
		return fmt.Errorf("%s not found: %w", t.binary, err)
	}
	return nil
}

// Transform rewrites inputPath into outputPath with the variant's flags
func (t *Transformer) Transform(ctx context.Context, inputPath, outputPath string, params secondary.TransformParams) error {
	args := buildArgs(t.variant, params.Level, inputPath, outputPath)

	runCtx := ctx
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	if err := t.runCommand(runCtx, t.binary, args...); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s after %s: %w", t.binary, params.Timeout, secondary.ErrTimeout)
		}
		return err
	}
	return nil
}

func (t *Transformer) execute(ctx context.Context, name string, args ...string) error {
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

// buildArgs assembles the Ghostscript command line. Level 1 targets
// screen quality, 2 ebook, 3 prepress.
func buildArgs(variant Variant, level int, inputPath, outputPath string) []string {
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
	}
	args = append(args, levelSettings(variant, level)...)
	args = append(args, "-sOutputFile="+outputPath, inputPath)
	return args
}

func levelSettings(variant Variant, level int) []string {
	preset, dpi := presetFor(level)

	switch variant {
	case VariantStandard:
		return []string{"-dPDFSETTINGS=" + preset}
	case VariantImageOnly:
		return []string{
			"-dDownsampleColorImages=true",
			"-dDownsampleGrayImages=true",
			"-dDownsampleMonoImages=true",
			fmt.Sprintf("-dColorImageResolution=%d", dpi),
			fmt.Sprintf("-dGrayImageResolution=%d", dpi),
			fmt.Sprintf("-dMonoImageResolution=%d", dpi),
		}
	}
	return []string{
		"-dPDFSETTINGS=" + preset,
		"-dDownsampleColorImages=true",
		fmt.Sprintf("-dColorImageResolution=%d", dpi),
		fmt.Sprintf("-dGrayImageResolution=%d", dpi),
		fmt.Sprintf("-dMonoImageResolution=%d", dpi),
	}
}

func presetFor(level int) (string, int) {
	switch level {
	case 1:
		return "/screen", 72
	case 2:
		return "/ebook", 150
	default:
		return "/prepress", 300
	}
}

var _ secondary.Transformer = (*Transformer)(nil)
