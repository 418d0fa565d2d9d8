// Package pdfinfo inspects PDF files without external tools.
package pdfinfo

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// Counter reports PDF page counts using pdfcpu
type Counter struct{}

func NewCounter() *Counter {
	return &Counter{}
}

// PageCount returns the number of pages in the PDF at path
func (c *Counter) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages in %s: %w", path, err)
	}
	return n, nil
}

var _ secondary.PageCounter = (*Counter)(nil)
