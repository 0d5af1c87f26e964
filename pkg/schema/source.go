package schema

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Format identifies the encoding of a resume data file.
type Format string

const (
	// FormatYAML is the default input encoding.
	FormatYAML Format = "yaml"
	// FormatJSON is accepted as an alternative encoding.
	FormatJSON Format = "json"
)

// SourceKind discriminates Source implementations.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindBytes SourceKind = "bytes"
)

// Source identifies where a resume document lives.
type Source interface {
	Location() string
	Kind() SourceKind
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to an on-disk data file.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a document inside an fs.FS.
func SourceFromFS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

type bytesSource struct {
	name string
	data []byte
}

func (s bytesSource) Location() string { return s.name }
func (s bytesSource) Kind() SourceKind { return SourceKindBytes }

// SourceFromBytes wraps an in-memory document. The name is used for
// diagnostics and format detection only.
func SourceFromBytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

// DetectFormat picks the Format for a source location based on its
// extension. Unknown extensions fall back to YAML, the primary encoding.
func DetectFormat(location string) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}
