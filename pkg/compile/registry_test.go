package compile_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mtstanley/rsume/pkg/compile"
)

type stubCompiler struct {
	name string
}

func (s stubCompiler) Name() string { return s.name }

func (s stubCompiler) Compile(_ context.Context, _ string, _ compile.Config) ([]byte, error) {
	return []byte("ok"), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := compile.NewRegistry()

	if err := reg.Register(stubCompiler{name: "latex"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(stubCompiler{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := reg.Get("latex")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "latex" {
		t.Fatalf("unexpected compiler %q", got.Name())
	}

	if diff := cmp.Diff([]string{"html", "latex"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("html") || reg.Has("markdown") {
		t.Fatalf("Has misreports registrations")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := compile.NewRegistry()

	if err := reg.Register(stubCompiler{name: "latex"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(stubCompiler{name: "latex"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistry_Missing(t *testing.T) {
	reg := compile.NewRegistry()

	if _, err := reg.Get("latex"); err == nil {
		t.Fatal("expected error for unregistered compiler")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("expected error for nil compiler")
	}
	if err := reg.Register(stubCompiler{}); err == nil {
		t.Fatal("expected error for unnamed compiler")
	}
}
