// Package engine wraps the pongo2 template engine behind the small surface
// the rendering pipeline needs: load templates from a directory or fs.FS,
// render one by name against a context tree, and register named filters.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// pongo2 applies whatever is registered under the name "escape" to every
// output node while its autoescape mode is on, which would transform fields
// the templates substitute verbatim (dates, URLs) and double-apply every
// explicit filter site. Escaping here is explicit, so autoescape is switched
// off for the process. bindMu orders filter installation against template
// parsing, which is when pongo2 resolves filter names.
var (
	autoescapeOff sync.Once
	bindMu        sync.Mutex
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// Engine renders pongo2 templates by name. Parsed templates are cached for
// the lifetime of the engine, which is one pipeline run.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	filters   map[string]func(input any, param any) (any, error)
}

// New constructs an Engine from the provided options. At least one template
// location is required.
func New(options ...Option) (*Engine, error) {
	autoescapeOff.Do(func() { pongo2.SetAutoescape(false) })

	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("engine: need either a base dir or an fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("engine: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	return &Engine{
		set:       pongo2.NewSet("rsume", loaders...),
		templates: make(map[string]*pongo2.Template),
		filters:   make(map[string]func(input any, param any) (any, error)),
	}, nil
}

// Render expands the named template against the context tree.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("engine: engine is nil")
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("engine: template name is required")
	}

	bindMu.Lock()
	err := e.installFilters()
	var tmpl *pongo2.Template
	if err == nil {
		tmpl, err = e.template(name)
	}
	bindMu.Unlock()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("engine: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// RegisterFilter binds a named filter for this engine's renders. The binding
// is engine-local: the shared pongo2 table only ever holds a forwarder that
// resolves through the owning engine, so two engines can carry different
// transforms under the same name without observing each other.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("engine: filter name and function required")
	}

	e.mu.Lock()
	e.filters[name] = fn
	e.mu.Unlock()
	return nil
}

// installFilters points every bound name at this engine's forwarder. Runs
// under bindMu so the templates parsed next resolve to these bindings.
func (e *Engine) installFilters() error {
	e.mu.RLock()
	names := make([]string, 0, len(e.filters))
	for name := range e.filters {
		names = append(names, name)
	}
	e.mu.RUnlock()

	for _, name := range names {
		forwarder := e.forwarder(name)
		var err error
		if pongo2.FilterExists(name) {
			err = pongo2.ReplaceFilter(name, forwarder)
		} else {
			err = pongo2.RegisterFilter(name, forwarder)
		}
		if err != nil {
			return fmt.Errorf("engine: bind filter %q: %w", name, err)
		}
	}
	return nil
}

// forwarder adapts the engine-local binding to pongo2's filter signature.
// The lookup happens at execution time, so re-registering a name on this
// engine takes effect even for templates that were already parsed.
func (e *Engine) forwarder(name string) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		e.mu.RLock()
		fn := e.filters[name]
		e.mu.RUnlock()
		if fn == nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: errors.New("filter not bound")}
		}

		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("engine: load template %q: %w", name, err)
	}

	e.templates[name] = tmpl
	return tmpl, nil
}
