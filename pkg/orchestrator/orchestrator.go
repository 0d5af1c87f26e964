// Package orchestrator sequences the rendering pipeline: load the data
// file, validate it, build the template context, render, compile, persist.
// Each stage's failure is fatal to the run; nothing is retried.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mtstanley/rsume/internal/engine"
	"github.com/mtstanley/rsume/pkg/compile"
	"github.com/mtstanley/rsume/pkg/render"
	"github.com/mtstanley/rsume/pkg/schema"
)

const defaultTarget = render.TargetLaTeX

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a compiler registry. Without it the orchestrator
// registers the built-in TeX and Chrome backends.
func WithRegistry(registry *compile.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithLogger injects a structured logger. The default discards nothing and
// writes to stderr at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithDefaultTarget overrides the target syntax used when a request omits
// an explicit Target field.
func WithDefaultTarget(target render.Target) Option {
	return func(o *Orchestrator) {
		o.defaultTarget = target
	}
}

// Orchestrator coordinates the full pipeline from data file to compiled
// document. Missing dependencies are initialised with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	loader          *schema.Loader
	registry        *compile.Registry
	logger          *slog.Logger
	defaultTarget   render.Target
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultTarget: defaultTarget,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render and compile one resume.
type Request struct {
	// Source identifies the resume data file.
	Source schema.Source

	// TemplateDir is the template root on disk. TemplateFS may be supplied
	// instead (or additionally; the directory wins for duplicate names).
	TemplateDir string
	TemplateFS  fs.FS

	// Template is the entry-point template filename, e.g. "resume.tex".
	Template string

	// Target selects the markup syntax and with it the escaping transform
	// and the compiler backend. Empty falls back to the configured default.
	Target render.Target

	// FilesystemRoot resolves relative includes during compilation.
	// Defaults to TemplateDir.
	FilesystemRoot string

	// Format selects the compiled output format. Empty means PDF.
	Format compile.Format
}

// Result carries the artifacts of one successful run.
type Result struct {
	// Document is the compiled binary output.
	Document []byte
	// Rendered is the intermediate typeset source, kept for inspection.
	Rendered string
	// RunID correlates log lines and scratch artifacts of this run.
	RunID string
}

// Generate executes load → validate → build context → render → compile and
// returns the artifacts. Persisting them is Run's job.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	o.applyDefaults()

	if req.Source == nil {
		return Result{}, errors.New("orchestrator: data source is required")
	}
	if strings.TrimSpace(req.Template) == "" {
		return Result{}, errors.New("orchestrator: template name is required")
	}
	if req.TemplateDir == "" && req.TemplateFS == nil {
		return Result{}, errors.New("orchestrator: template dir or fs is required")
	}

	target := req.Target
	if target == "" {
		target = o.defaultTarget
	}
	escape, err := render.EscaperFor(target)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	log := o.logger.With("run_id", runID)
	log.Debug("loading data file", "source", req.Source.Location())

	author, err := o.loadAuthor(ctx, req.Source)
	if err != nil {
		return Result{}, err
	}
	log.Debug("data file validated", "experiences", len(author.Experiences), "educations", len(author.Educations))

	tree := render.BuildContext(author)

	eng, err := o.newEngine(req)
	if err != nil {
		return Result{}, stageErr(ErrTemplate, err)
	}
	if err := eng.RegisterFilter(render.FilterName, filterFunc(escape)); err != nil {
		return Result{}, stageErr(ErrTemplate, err)
	}

	rendered, err := eng.Render(req.Template, tree)
	if err != nil {
		return Result{}, stageErr(ErrTemplate, err)
	}
	log.Debug("template rendered", "template", req.Template, "bytes", len(rendered))

	compiler, err := o.registry.Get(string(target))
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	root := req.FilesystemRoot
	if root == "" {
		root = req.TemplateDir
	}
	document, err := compiler.Compile(ctx, rendered, compile.Config{
		FilesystemRoot: root,
		InputName:      req.Template,
		Format:         req.Format,
	})
	if err != nil {
		return Result{}, stageErr(ErrCompilation, err)
	}
	log.Info("document compiled", "target", string(target), "bytes", len(document))

	return Result{Document: document, Rendered: rendered, RunID: runID}, nil
}

func (o *Orchestrator) loadAuthor(ctx context.Context, src schema.Source) (*schema.Author, error) {
	author, err := o.loader.Load(ctx, src)
	if err == nil {
		return author, nil
	}
	var iss schema.Issues
	if errors.As(err, &iss) {
		return nil, stageErr(ErrSchema, err)
	}
	return nil, stageErr(ErrIO, err)
}

func (o *Orchestrator) newEngine(req Request) (*engine.Engine, error) {
	var opts []engine.Option
	if req.TemplateDir != "" {
		opts = append(opts, engine.WithBaseDir(req.TemplateDir))
	}
	if req.TemplateFS != nil {
		opts = append(opts, engine.WithFS(req.TemplateFS))
	}
	return engine.New(opts...)
}

// filterFunc adapts an Escaper to the engine's filter signature. Non-string
// values pass through untouched so numeric context nodes stay numeric.
func filterFunc(escape render.Escaper) func(input any, param any) (any, error) {
	return func(input any, _ any) (any, error) {
		s, ok := input.(string)
		if !ok {
			return input, nil
		}
		return escape(s), nil
	}
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = schema.NewLoader()
	}
	if o.registry == nil {
		o.registry = compile.NewRegistry()
		o.registry.MustRegister(compile.NewTeX())
		o.registry.MustRegister(compile.NewChrome())
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if o.defaultTarget == "" {
		o.defaultTarget = defaultTarget
	}

	o.defaultsApplied = true
}

// RunRequest extends Request with persistence configuration.
type RunRequest struct {
	Request

	// OutputDir receives the compiled document (created if missing).
	OutputDir string

	// OutputName overrides the output file stem. Defaults to the template
	// name without its extension.
	OutputName string

	// KeepRendered also persists the intermediate typeset source next to
	// the document, for debugging.
	KeepRendered bool
}

// RunResult reports where Run persisted the artifacts.
type RunResult struct {
	Result
	DocumentPath string
	RenderedPath string
}

// Run executes Generate and persists the artifacts atomically under the
// output directory. On failure no output file is written.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	result, err := o.Generate(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	if req.OutputDir == "" {
		return nil, errors.New("orchestrator: output dir is required")
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, stageErr(ErrIO, fmt.Errorf("orchestrator: create output dir: %w", err))
	}

	stem := req.OutputName
	if stem == "" {
		stem = strings.TrimSuffix(filepath.Base(req.Template), filepath.Ext(req.Template))
	}

	out := &RunResult{Result: result}
	out.DocumentPath = filepath.Join(req.OutputDir, stem+"."+string(outputFormat(req.Format)))
	if err := writeAtomic(out.DocumentPath, result.Document); err != nil {
		return nil, stageErr(ErrIO, fmt.Errorf("orchestrator: persist document: %w", err))
	}

	if req.KeepRendered {
		ext := filepath.Ext(req.Template)
		if ext == "" {
			ext = ".txt"
		}
		out.RenderedPath = filepath.Join(req.OutputDir, stem+ext)
		if err := writeAtomic(out.RenderedPath, []byte(result.Rendered)); err != nil {
			return nil, stageErr(ErrIO, fmt.Errorf("orchestrator: persist rendered source: %w", err))
		}
	}

	o.logger.Info("run complete", "run_id", result.RunID, "document", out.DocumentPath)
	return out, nil
}

func outputFormat(f compile.Format) compile.Format {
	if f == "" {
		return compile.FormatPDF
	}
	return f
}
