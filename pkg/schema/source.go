package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a document originated so loaders can operate on
// files, fs.FS entries, URLs, or inline payloads without leaking details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// ParseURL validates raw as an absolute http(s) URL and returns a Source.
func ParseURL(raw string) (Source, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidSource)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSource, raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidSource, raw)
	}
	return urlSource{raw: raw}, nil
}

// SourceFromURL is ParseURL for locations known at compile time. It panics if
// the URL is invalid.
func SourceFromURL(raw string) Source {
	src, err := ParseURL(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

type inlineSource struct {
	name string
}

func (s inlineSource) Location() string { return s.name }
func (s inlineSource) Kind() SourceKind { return SourceKindInline }

// SourceInline labels a payload that was supplied in memory.
func SourceInline(name string) Source {
	if strings.TrimSpace(name) == "" {
		name = "inline"
	}
	return inlineSource{name: name}
}

// SourceFromPath picks a URL source for http(s) locations and a file source
// otherwise. User supplied locations go through here: malformed URLs and
// blank input return ErrInvalidSource.
func SourceFromPath(raw string) (Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, fmt.Errorf("%w: empty location", ErrInvalidSource)
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return ParseURL(path)
	}
	return SourceFromFile(path), nil
}
