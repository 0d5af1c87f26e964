// Package compile turns rendered typeset source into a final binary
// document. Backends are registered by name; each run passes an explicit
// Config so no compiler state is process-global.
package compile

import (
	"context"
	"fmt"
)

// Format names the binary output format.
type Format string

// FormatPDF is the only output format the bundled compilers produce.
const FormatPDF Format = "pdf"

// Config carries the per-run filesystem and naming state a compiler needs.
type Config struct {
	// FilesystemRoot is the directory used to resolve relative includes in
	// the source (TeX \input, HTML stylesheets).
	FilesystemRoot string

	// InputName is the logical name of the source, used in diagnostics and
	// cross-references. Defaults to a compiler-specific stand-in.
	InputName string

	// Format selects the output format. Empty means FormatPDF.
	Format Format

	// WorkDir optionally pins the scratch directory. When empty each run
	// gets a fresh temporary directory that is removed afterwards.
	WorkDir string
}

// Compiler transforms typeset source text into a binary document.
type Compiler interface {
	Name() string
	Compile(ctx context.Context, source string, cfg Config) ([]byte, error)
}

// Error wraps a compiler failure, preserving the underlying engine's
// diagnostic output so the operator can locate the defect.
type Error struct {
	Compiler string
	Log      string
	Err      error
}

func (e *Error) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("compile: %s: %v", e.Compiler, e.Err)
	}
	return fmt.Sprintf("compile: %s: %v\n%s", e.Compiler, e.Err, e.Log)
}

func (e *Error) Unwrap() error { return e.Err }

func (c Config) format() (Format, error) {
	switch c.Format {
	case "", FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("compile: unsupported output format %q", c.Format)
	}
}
