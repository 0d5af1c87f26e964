package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mtstanley/rsume/pkg/compile"
	"github.com/mtstanley/rsume/pkg/orchestrator"
	"github.com/mtstanley/rsume/pkg/render"
	"github.com/mtstanley/rsume/pkg/schema"
)

func main() {
	// Optional .env so RSUME_* defaults can live next to the project.
	_ = godotenv.Load()

	data := flag.String("data", envDefault("RSUME_DATA", "author.yaml"), "resume data file (YAML or JSON)")
	templates := flag.String("templates", envDefault("RSUME_TEMPLATES", "templates"), "template root directory")
	template := flag.String("template", envDefault("RSUME_TEMPLATE", "resume.tex"), "entry-point template filename")
	root := flag.String("root", envDefault("RSUME_ROOT", ""), "filesystem root for relative includes (defaults to the template dir)")
	out := flag.String("out", envDefault("RSUME_OUT", "out"), "output directory")
	target := flag.String("target", envDefault("RSUME_TARGET", "latex"), "target syntax: latex or html")
	format := flag.String("format", envDefault("RSUME_FORMAT", "pdf"), "compiled output format")
	keepRendered := flag.Bool("keep-rendered", false, "also write the rendered source next to the document")
	logLevel := flag.String("log-level", envDefault("RSUME_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	gen := orchestrator.New(orchestrator.WithLogger(logger))

	result, err := gen.Run(context.Background(), orchestrator.RunRequest{
		Request: orchestrator.Request{
			Source:         schema.SourceFromFile(*data),
			TemplateDir:    *templates,
			Template:       *template,
			Target:         render.Target(*target),
			FilesystemRoot: *root,
			Format:         compile.Format(*format),
		},
		OutputDir:    *out,
		KeepRendered: *keepRendered,
	})
	if err != nil {
		logger.Error("run failed", "stage", stageName(err), "error", err)
		os.Exit(1)
	}

	fmt.Printf("Document written to %s\n", result.DocumentPath)
	if result.RenderedPath != "" {
		fmt.Printf("Rendered source written to %s\n", result.RenderedPath)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func stageName(err error) string {
	switch {
	case errors.Is(err, orchestrator.ErrIO):
		return "io"
	case errors.Is(err, orchestrator.ErrSchema):
		return "schema"
	case errors.Is(err, orchestrator.ErrTemplate):
		return "template"
	case errors.Is(err, orchestrator.ErrCompilation):
		return "compile"
	default:
		return "setup"
	}
}
