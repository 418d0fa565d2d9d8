package tesseract

import (
	"context"
	"fmt"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// stageTwoTimeoutFactor stretches the per-file budget for the
// compression stage, which runs over the freshly recognized document
// and can be much larger than the input.
const stageTwoTimeoutFactor = 10

// CombinedTransformer chains OCR recognition with a compression pass.
type CombinedTransformer struct {
	ocr      secondary.Transformer
	compress secondary.Transformer
	scratch  func(ext string) string
	remove   func(path string) error
}

// NewCombined creates the Tesseract+compression pipeline. The scratch
// and remove funcs come from the file manager.
func NewCombined(ocr, compress secondary.Transformer, scratch func(ext string) string, remove func(path string) error) *CombinedTransformer {
	return &CombinedTransformer{
		ocr:      ocr,
		compress: compress,
		scratch:  scratch,
		remove:   remove,
	}
}

func (t *CombinedTransformer) Name() string {
	return "tesseract-ghostscript"
}

// Available requires both stages to be installed
func (t *CombinedTransformer) Available() error {
	if err := t.ocr.Available(); err != nil {
		return err
	}
	return t.compress.Available()
}

// Transform recognizes the input first, then compresses the result.
// A failed recognition aborts the compression stage.
func (t *CombinedTransformer) Transform(ctx context.Context, inputPath, outputPath string, params secondary.TransformParams) error {
	mid := t.scratch(".pdf")
	defer func() { _ = t.remove(mid) }()

	if err := t.ocr.Transform(ctx, inputPath, mid, params); err != nil {
		return fmt.Errorf("recognition stage: %w", err)
	}

	stageTwo := params
	stageTwo.Timeout = params.Timeout * stageTwoTimeoutFactor
	if err := t.compress.Transform(ctx, mid, outputPath, stageTwo); err != nil {
		return fmt.Errorf("compression stage: %w", err)
	}
	return nil
}

var _ secondary.Transformer = (*CombinedTransformer)(nil)
