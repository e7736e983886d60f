package schemaform

import (
	internalParser "github.com/goliatone/go-schemaform/internal/openapi/parser"
	internalLoader "github.com/goliatone/go-schemaform/internal/loader"
	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs an OpenAPI parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}
