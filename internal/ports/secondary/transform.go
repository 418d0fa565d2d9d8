package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout marks a transform that was killed because it exceeded its
// time budget. Callers classify it with errors.Is.
var ErrTimeout = errors.New("transform timed out")

// TransformParams carries the per-file knobs a Transformer may use.
type TransformParams struct {
	// Level selects the compression preset, 1 (smallest) to 3 (best quality).
	Level int
	// Timeout bounds a single transform. Zero means no limit.
	Timeout time.Duration
	// Languages lists OCR languages in priority order.
	Languages []string
}

// Transformer turns an input PDF into an output PDF. Implementations
// wrap external tools and must leave the input untouched.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, inputPath, outputPath string, params TransformParams) error
	// Available reports whether the backing tools are installed.
	Available() error
}

// PageCounter reports the number of pages in a PDF.
type PageCounter interface {
	PageCount(path string) (int, error)
}
