package render

import (
	"fmt"
	"strings"
)

// FilterName is the name under which the escaping transform is registered
// with the template engine. Templates apply it to every user-supplied
// free-text substitution, exactly once per site; applying it twice
// double-escapes.
const FilterName = "escape"

// Target identifies the markup syntax the pipeline renders into.
type Target string

const (
	TargetLaTeX Target = "latex"
	TargetHTML  Target = "html"
)

// Escaper neutralizes characters the target syntax treats specially. The
// function is total and keeps all other characters unchanged and in order.
type Escaper func(string) string

// EscaperFor returns the escaping transform for a target syntax.
func EscaperFor(target Target) (Escaper, error) {
	switch target {
	case TargetLaTeX:
		return EscapeLaTeX, nil
	case TargetHTML:
		return EscapeHTML, nil
	default:
		return nil, fmt.Errorf("render: unknown target %q", target)
	}
}

// EscapeLaTeX escapes the full set of characters TeX treats specially.
// Seven of them take a backslash prefix; backslash, tilde, and caret have
// no valid two-character form and map to their replacement commands.
func EscapeLaTeX(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '&', '%', '$', '#', '_', '{', '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeHTML escapes the five characters that break out of HTML text and
// attribute contexts.
func EscapeHTML(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&#34;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
