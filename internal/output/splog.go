package output

import (
	"fmt"
	"io"
	"os"
)

// Splog is gg's plain-text logger: unstructured, human-facing progress
// lines, as distinct from the --json response written by PrintJSON.
type Splog struct {
	writer io.Writer
}

// NewSplog returns a Splog writing to stdout.
func NewSplog() *Splog {
	return &Splog{writer: os.Stdout}
}

// Info writes a formatted line followed by a newline.
func (s *Splog) Info(format string, args ...any) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Newline writes a blank line.
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}
