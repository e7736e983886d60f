package openapi

import (
	"context"
	"errors"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

var (
	// ErrNoPaths is returned for documents without any path item.
	ErrNoPaths = errors.New("openapi: document does not contain any paths")
	// ErrOperationNotFound is returned when no operation matches the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation declares no request schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

// Operation identifies one OpenAPI operation. ID falls back to
// "<method>:<path>" when the document omits operationId.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	// HasRequestBody reports whether a request body schema was found.
	HasRequestBody bool
}

// Parser reads operations and their request body schemas from a document.
type Parser interface {
	Operations(ctx context.Context, doc schema.Document) ([]Operation, error)
	RequestSchema(ctx context.Context, doc schema.Document, operationID string) (*schema.Node, error)
}

// ParserOptions exposes toggles consumed by Parser implementations.
type ParserOptions struct {
	// ResolveReferences validates the document so every $ref is resolved
	// before conversion.
	ResolveReferences bool

	// AllowPartialDocuments accepts documents without paths.
	AllowPartialDocuments bool

	// MediaTypes lists request body content types in preference order.
	MediaTypes []string
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithPartialDocuments toggles support for component-only documents.
func WithPartialDocuments(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowPartialDocuments = enabled
	}
}

// WithMediaTypes overrides the request body content type preference.
func WithMediaTypes(mediaTypes ...string) ParserOption {
	return func(opts *ParserOptions) {
		if len(mediaTypes) > 0 {
			opts.MediaTypes = append([]string(nil), mediaTypes...)
		}
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences: true,
		MediaTypes:        []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
