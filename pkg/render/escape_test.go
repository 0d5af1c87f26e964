package render_test

import (
	"strings"
	"testing"

	"github.com/mtstanley/rsume/pkg/render"
)

func TestEscapeLaTeX(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "plain text", "plain text"},
		{"ampersand", "R&D", `R\&D`},
		{"percent", "100% sure", `100\% sure`},
		{"dollar and hash", "$5 #1", `\$5 \#1`},
		{"underscore and braces", "a_b {c}", `a\_b \{c\}`},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"tilde", "~/bin", `\textasciitilde{}/bin`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"unicode preserved", "naïve — résumé", "naïve — résumé"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render.EscapeLaTeX(tc.in); got != tc.want {
				t.Fatalf("EscapeLaTeX(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEscapeLaTeX_NeverShrinks(t *testing.T) {
	inputs := []string{"", "plain", "&%$#_{}", `\~^`, "mixed & text % with $ specials"}
	for _, in := range inputs {
		if got := render.EscapeLaTeX(in); len(got) < len(in) {
			t.Fatalf("escape shrank %q to %q", in, got)
		}
	}
}

func TestEscapeLaTeX_MarksEveryEscapedChar(t *testing.T) {
	in := "a & b % c $ d # e _ f"
	got := render.EscapeLaTeX(in)
	for _, ch := range []string{"&", "%", "$", "#", "_"} {
		if !strings.Contains(got, `\`+ch) {
			t.Fatalf("escaped output misses marker before %q: %q", ch, got)
		}
		if strings.Contains(got, " "+ch) {
			t.Fatalf("unescaped %q survived: %q", ch, got)
		}
	}
}

func TestEscapeLaTeX_DoubleEscapeDiffers(t *testing.T) {
	in := "R&D"
	once := render.EscapeLaTeX(in)
	twice := render.EscapeLaTeX(once)
	if once == twice {
		t.Fatalf("double escape should differ: %q", once)
	}
	// The transform is to be applied exactly once per substitution site.
	if twice != `R\textbackslash{}\&D` {
		t.Fatalf("unexpected double-escape form: %q", twice)
	}
}

func TestEscapeHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"R&D", "R&amp;D"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{`"quote" 'tick'`, "&#34;quote&#34; &#39;tick&#39;"},
	}

	for _, tc := range cases {
		if got := render.EscapeHTML(tc.in); got != tc.want {
			t.Fatalf("EscapeHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscaperFor(t *testing.T) {
	if _, err := render.EscaperFor(render.TargetLaTeX); err != nil {
		t.Fatalf("latex escaper: %v", err)
	}
	if _, err := render.EscaperFor(render.TargetHTML); err != nil {
		t.Fatalf("html escaper: %v", err)
	}
	if _, err := render.EscaperFor(render.Target("markdown")); err == nil {
		t.Fatal("expected error for unknown target")
	}
}
