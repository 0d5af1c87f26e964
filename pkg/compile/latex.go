package compile

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// texEngines are tried in PATH order when no binary is pinned.
var texEngines = []string{"tectonic", "pdflatex", "xelatex"}

// TeXOption configures the TeX compiler.
type TeXOption func(*TeXCompiler)

// WithBinary pins the TeX engine binary instead of searching PATH.
func WithBinary(path string) TeXOption {
	return func(c *TeXCompiler) {
		c.binary = strings.TrimSpace(path)
	}
}

// TeXCompiler drives an external TeX engine process to turn LaTeX source
// into a PDF. The engine's full log is preserved on failure.
type TeXCompiler struct {
	binary string
}

// NewTeX constructs a TeX compiler applying any provided options.
func NewTeX(options ...TeXOption) *TeXCompiler {
	c := &TeXCompiler{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Name implements Compiler.
func (c *TeXCompiler) Name() string { return "latex" }

// Compile writes the source into a scratch directory, runs the TeX engine
// there, and returns the produced PDF bytes.
func (c *TeXCompiler) Compile(ctx context.Context, source string, cfg Config) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("compile: context is required")
	}
	if _, err := cfg.format(); err != nil {
		return nil, err
	}

	bin, err := c.resolveBinary()
	if err != nil {
		return nil, &Error{Compiler: c.Name(), Err: err}
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "rsume-tex-")
		if err != nil {
			return nil, fmt.Errorf("compile: create scratch dir: %w", err)
		}
		defer os.RemoveAll(dir)
		workDir = dir
	}

	inputName := cfg.InputName
	if inputName == "" {
		inputName = "resume.tex"
	}
	inputPath := filepath.Join(workDir, inputName)
	if err := os.WriteFile(inputPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("compile: write source: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, texArgs(bin, workDir, inputName)...)
	cmd.Dir = workDir
	cmd.Env = texEnv(cfg.FilesystemRoot)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &Error{Compiler: c.Name(), Log: string(out), Err: err}
	}

	stem := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	pdf, err := os.ReadFile(filepath.Join(workDir, stem+".pdf"))
	if err != nil {
		return nil, &Error{Compiler: c.Name(), Log: string(out), Err: fmt.Errorf("engine produced no PDF: %w", err)}
	}
	return pdf, nil
}

func (c *TeXCompiler) resolveBinary() (string, error) {
	if c.binary != "" {
		return c.binary, nil
	}
	for _, candidate := range texEngines {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no TeX engine found in PATH (tried %s)", strings.Join(texEngines, ", "))
}

func texArgs(bin, workDir, inputName string) []string {
	if strings.Contains(filepath.Base(bin), "tectonic") {
		return []string{"--keep-logs", "--outdir", workDir, inputName}
	}
	return []string{"-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, inputName}
}

// texEnv prepends the filesystem root to TEXINPUTS so relative includes in
// the source resolve against it. The trailing separator keeps the engine's
// default search path.
func texEnv(root string) []string {
	env := os.Environ()
	if root == "" {
		return env
	}
	sep := string(os.PathListSeparator)
	existing := os.Getenv("TEXINPUTS")
	return append(env, "TEXINPUTS="+root+sep+existing)
}
