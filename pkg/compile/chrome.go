package compile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// ChromeOption configures the headless-Chrome compiler.
type ChromeOption func(*ChromeCompiler)

// WithExecPath pins the browser binary instead of relying on chromedp's
// discovery (or the CHROME_PATH environment variable).
func WithExecPath(path string) ChromeOption {
	return func(c *ChromeCompiler) {
		c.execPath = path
	}
}

// ChromeCompiler prints rendered HTML to PDF through a headless Chrome
// instance. The browser is launched per compile and torn down with it, so
// no browser state leaks between runs.
type ChromeCompiler struct {
	execPath string
}

// NewChrome constructs a Chrome compiler applying any provided options.
func NewChrome(options ...ChromeOption) *ChromeCompiler {
	c := &ChromeCompiler{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Name implements Compiler.
func (c *ChromeCompiler) Name() string { return "html" }

// Compile writes the HTML next to its relative assets and prints it to an
// A4 PDF. Cancellation comes from ctx only; no timeout is imposed here.
func (c *ChromeCompiler) Compile(ctx context.Context, source string, cfg Config) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("compile: context is required")
	}
	if _, err := cfg.format(); err != nil {
		return nil, err
	}

	htmlPath, cleanup, err := c.stageHTML(source, cfg)
	if err != nil {
		return nil, fmt.Errorf("compile: stage html: %w", err)
	}
	defer cleanup()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	} else if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm.
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &Error{Compiler: c.Name(), Err: err}
	}
	return pdf, nil
}

// stageHTML places the source where its relative references resolve: inside
// the filesystem root when one is configured, otherwise in a scratch
// directory. The file name is randomized so concurrent runs sharing a root
// cannot collide.
func (c *ChromeCompiler) stageHTML(source string, cfg Config) (string, func(), error) {
	if cfg.FilesystemRoot != "" {
		name := fmt.Sprintf(".rsume-%s.html", uuid.NewString())
		path, err := filepath.Abs(filepath.Join(cfg.FilesystemRoot, name))
		if err != nil {
			return "", nil, err
		}
		if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
			return "", nil, err
		}
		return path, func() { _ = os.Remove(path) }, nil
	}

	dir, err := os.MkdirTemp("", "rsume-html-")
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, err
	}
	return path, func() { _ = os.RemoveAll(dir) }, nil
}
