package schema

import (
	"fmt"
	"strings"
)

// Error codes carried by FieldError. Exported consts so callers can branch
// without string literals.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeMalformedDate = "malformed_date"
	CodeConflict      = "conflict"
	CodeOutOfRange    = "out_of_range"
	CodeParseError    = "parse_error"
)

// FieldError is a single structural or semantic defect in a resume
// document. Path is a JSON-Pointer-style location, for example
// /experiences/0/position.
type FieldError struct {
	Path    string
	Code    string
	Message string
}

func (e FieldError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s at %s", e.Code, e.Path)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// Issues collects every defect found in one validation pass and implements
// error. The summary shows the first few entries so a single log line stays
// readable.
type Issues []FieldError

func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Has reports whether any issue carries the given code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// At returns the first issue recorded for the given path, if any.
func (iss Issues) At(path string) (FieldError, bool) {
	for _, it := range iss {
		if it.Path == path {
			return it, true
		}
	}
	return FieldError{}, false
}

func (iss *Issues) append(path, code, message string) {
	*iss = append(*iss, FieldError{Path: path, Code: code, Message: message})
}
