// Package term writes run progress to the terminal.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// Reporter prints color-coded progress lines
type Reporter struct {
	out io.Writer
}

func NewReporter() *Reporter {
	return &Reporter{out: os.Stdout}
}

// NewReporterTo writes to the given writer, used in tests
func NewReporterTo(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Infof(format string, args ...interface{}) {
	fmt.Fprintln(r.out, fmt.Sprintf(format, args...))
}

func (r *Reporter) Successf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.GreenString(format, args...))
}

func (r *Reporter) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.YellowString(format, args...))
}

func (r *Reporter) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(r.out, color.RedString(format, args...))
}

var _ secondary.Reporter = (*Reporter)(nil)
