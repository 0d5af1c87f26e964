package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/mtstanley/rsume/pkg/compile"
	"github.com/mtstanley/rsume/pkg/orchestrator"
	"github.com/mtstanley/rsume/pkg/render"
	"github.com/mtstanley/rsume/pkg/schema"
)

const authorYAML = `
name: Ada & Co
email: ada@example.com
website: https://example.com/ada_lovelace
experiences:
  - company:
      name: Engines Ltd
    position: 100% Engineer
    start_date: 2020-06-01
    current: true
`

// fakeCompiler captures the rendered source instead of launching a real
// typesetting engine.
type fakeCompiler struct {
	name     string
	source   string
	cfg      compile.Config
	document []byte
	err      error
	calls    int
}

func (f *fakeCompiler) Name() string { return f.name }

func (f *fakeCompiler) Compile(_ context.Context, source string, cfg compile.Config) ([]byte, error) {
	f.calls++
	f.source = source
	f.cfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T, fake *fakeCompiler) *orchestrator.Orchestrator {
	t.Helper()
	registry := compile.NewRegistry()
	registry.MustRegister(fake)
	return orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(quietLogger()),
	)
}

func templateFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestOrchestrator_Generate(t *testing.T) {
	fake := &fakeCompiler{name: "latex", document: []byte("%PDF-fake")}
	gen := newTestOrchestrator(t, fake)

	result, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:   schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
		Template: "resume.tex",
		TemplateFS: templateFS(map[string]string{
			"resume.tex": "{{ name|escape }}\n{{ experiences.0.position }}\n\\url{ {{ website }} }",
		}),
		Target: render.TargetLaTeX,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if string(result.Document) != "%PDF-fake" {
		t.Fatalf("unexpected document %q", result.Document)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id")
	}

	// The name goes through the escape filter exactly once; the position
	// and the URL are substituted verbatim, in template-defined order.
	lines := strings.Split(fake.source, "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected rendered output %q", fake.source)
	}
	if lines[0] != `Ada \& Co` {
		t.Fatalf("name not escaped exactly once: %q", lines[0])
	}
	if lines[1] != "100% Engineer" {
		t.Fatalf("position should be untouched: %q", lines[1])
	}
	if lines[2] != `\url{ https://example.com/ada_lovelace }` {
		t.Fatalf("url should be untouched: %q", lines[2])
	}

	if fake.cfg.InputName != "resume.tex" {
		t.Fatalf("logical input name not forwarded: %+v", fake.cfg)
	}
}

func TestOrchestrator_Generate_MissingTemplate(t *testing.T) {
	fake := &fakeCompiler{name: "latex", document: []byte("unused")}
	gen := newTestOrchestrator(t, fake)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
		Template:   "absent.tex",
		TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
	})
	if !errors.Is(err, orchestrator.ErrTemplate) {
		t.Fatalf("expected template stage error, got %v", err)
	}
	if fake.calls != 0 {
		t.Fatal("compiler must not run after a template failure")
	}
}

func TestOrchestrator_Generate_SchemaFailure(t *testing.T) {
	fake := &fakeCompiler{name: "latex"}
	gen := newTestOrchestrator(t, fake)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromBytes("author.yaml", []byte("email: only@example.com\n")),
		Template:   "resume.tex",
		TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
	})
	if !errors.Is(err, orchestrator.ErrSchema) {
		t.Fatalf("expected schema stage error, got %v", err)
	}

	var iss schema.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("field issues should stay reachable: %v", err)
	}
	if _, ok := iss.At("/name"); !ok {
		t.Fatalf("expected /name issue, got %v", iss)
	}
}

func TestOrchestrator_Generate_IOFailure(t *testing.T) {
	fake := &fakeCompiler{name: "latex"}
	gen := newTestOrchestrator(t, fake)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.yaml")),
		Template:   "resume.tex",
		TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
	})
	if !errors.Is(err, orchestrator.ErrIO) {
		t.Fatalf("expected io stage error, got %v", err)
	}
}

func TestOrchestrator_Generate_CompileFailure(t *testing.T) {
	fake := &fakeCompiler{
		name: "latex",
		err:  &compile.Error{Compiler: "latex", Log: "! Undefined control sequence.", Err: errors.New("exit 1")},
	}
	gen := newTestOrchestrator(t, fake)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
		Template:   "resume.tex",
		TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
	})
	if !errors.Is(err, orchestrator.ErrCompilation) {
		t.Fatalf("expected compilation stage error, got %v", err)
	}

	var cerr *compile.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("compiler diagnostics should stay reachable: %v", err)
	}
	if !strings.Contains(cerr.Log, "Undefined control sequence") {
		t.Fatalf("diagnostic log lost: %q", cerr.Log)
	}
}

func TestOrchestrator_Generate_UnknownTarget(t *testing.T) {
	fake := &fakeCompiler{name: "latex"}
	gen := newTestOrchestrator(t, fake)

	_, err := gen.Generate(context.Background(), orchestrator.Request{
		Source:     schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
		Template:   "resume.tex",
		TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
		Target:     render.Target("markdown"),
	})
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestOrchestrator_Run_Persists(t *testing.T) {
	fake := &fakeCompiler{name: "latex", document: []byte("%PDF-fake")}
	gen := newTestOrchestrator(t, fake)
	outDir := t.TempDir()

	result, err := gen.Run(context.Background(), orchestrator.RunRequest{
		Request: orchestrator.Request{
			Source:     schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
			Template:   "resume.tex",
			TemplateFS: templateFS(map[string]string{"resume.tex": "{{ name|escape }}"}),
		},
		OutputDir:    outDir,
		KeepRendered: true,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.DocumentPath != filepath.Join(outDir, "resume.pdf") {
		t.Fatalf("unexpected document path %q", result.DocumentPath)
	}
	doc, err := os.ReadFile(result.DocumentPath)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if string(doc) != "%PDF-fake" {
		t.Fatalf("unexpected document contents %q", doc)
	}

	rendered, err := os.ReadFile(result.RenderedPath)
	if err != nil {
		t.Fatalf("read rendered source: %v", err)
	}
	if string(rendered) != `Ada \& Co` {
		t.Fatalf("unexpected rendered contents %q", rendered)
	}
}

func TestOrchestrator_Run_NoOutputOnFailure(t *testing.T) {
	fake := &fakeCompiler{name: "latex"}
	gen := newTestOrchestrator(t, fake)
	outDir := t.TempDir()

	_, err := gen.Run(context.Background(), orchestrator.RunRequest{
		Request: orchestrator.Request{
			Source:     schema.SourceFromBytes("author.yaml", []byte(authorYAML)),
			Template:   "absent.tex",
			TemplateFS: templateFS(map[string]string{"resume.tex": "ok"}),
		},
		OutputDir: outDir,
	})
	if !errors.Is(err, orchestrator.ErrTemplate) {
		t.Fatalf("expected template stage error, got %v", err)
	}

	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("no output should be written on failure, found %d entries", len(entries))
	}
}

func TestOrchestrator_Generate_ValidatesRequest(t *testing.T) {
	gen := orchestrator.New(orchestrator.WithLogger(quietLogger()))

	if _, err := gen.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatal("expected error for empty request")
	}
	if _, err := gen.Generate(nil, orchestrator.Request{}); err == nil { //nolint:staticcheck // exercising the nil-context guard
		t.Fatal("expected error for nil context")
	}
}
