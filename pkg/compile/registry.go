package compile

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps target names ("latex", "html") to the compiler backend
// that turns rendered markup of that syntax into a document. A name is
// claimed once; the orchestrator resolves the run's target through Get.
type Registry struct {
	mu        sync.RWMutex
	compilers map[string]Compiler
}

// NewRegistry returns a registry with no backends bound.
func NewRegistry() *Registry {
	return &Registry{
		compilers: make(map[string]Compiler),
	}
}

// Register claims the compiler's Name() for it. Registering a second
// backend under a claimed name is refused rather than replacing the first.
func (r *Registry) Register(compiler Compiler) error {
	if compiler == nil {
		return fmt.Errorf("compile: compiler is required")
	}
	name := compiler.Name()
	if name == "" {
		return fmt.Errorf("compile: compiler name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.compilers[name]; exists {
		return fmt.Errorf("compile: compiler %q already registered", name)
	}

	r.compilers[name] = compiler
	return nil
}

// MustRegister is Register for wiring the built-in backends, where a
// clash can only be a programming error.
func (r *Registry) MustRegister(compiler Compiler) {
	if err := r.Register(compiler); err != nil {
		panic(err)
	}
}

// Get resolves a target name to its backend.
func (r *Registry) Get(name string) (Compiler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	compiler, ok := r.compilers[name]
	if !ok {
		return nil, fmt.Errorf("compile: compiler %q not found", name)
	}
	return compiler, nil
}

// List returns the claimed target names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.compilers))
	for name := range r.compilers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a backend is bound to the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.compilers[name]
	return ok
}
