package compile

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTexArgs(t *testing.T) {
	args := texArgs("/usr/bin/tectonic", "/tmp/work", "resume.tex")
	if args[0] != "--keep-logs" || args[len(args)-1] != "resume.tex" {
		t.Fatalf("unexpected tectonic args: %v", args)
	}

	args = texArgs("/usr/bin/pdflatex", "/tmp/work", "resume.tex")
	if args[0] != "-interaction=nonstopmode" {
		t.Fatalf("unexpected pdflatex args: %v", args)
	}
	found := false
	for i, a := range args {
		if a == "-output-directory" && i+1 < len(args) && args[i+1] == "/tmp/work" {
			found = true
		}
	}
	if !found {
		t.Fatalf("output directory missing from args: %v", args)
	}
}

func TestTexEnv(t *testing.T) {
	env := texEnv("/srv/resume")
	var texinputs string
	for _, kv := range env {
		if strings.HasPrefix(kv, "TEXINPUTS=") {
			texinputs = kv
		}
	}
	if !strings.HasPrefix(texinputs, "TEXINPUTS=/srv/resume") {
		t.Fatalf("filesystem root not prepended: %q", texinputs)
	}

	plain := texEnv("")
	if len(plain) == 0 {
		t.Fatal("expected inherited environment")
	}
}

func TestTeXCompiler_MissingBinary(t *testing.T) {
	c := NewTeX(WithBinary(""))
	t.Setenv("PATH", t.TempDir())

	_, err := c.Compile(context.Background(), `\documentclass{article}`, Config{})
	if err == nil {
		t.Fatal("expected failure when no TeX engine is installed")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
}

func TestConfigFormat(t *testing.T) {
	if _, err := (Config{}).format(); err != nil {
		t.Fatalf("empty format should default to pdf: %v", err)
	}
	if _, err := (Config{Format: FormatPDF}).format(); err != nil {
		t.Fatalf("pdf format: %v", err)
	}
	if _, err := (Config{Format: "dvi"}).format(); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
