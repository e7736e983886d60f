package form

import (
	"errors"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

var (
	// ErrUnsupportedType is returned when no constructor handles a schema
	// type tag.
	ErrUnsupportedType = schema.ErrUnsupportedType
	// ErrMissingSchema is returned when a node is built without a schema.
	ErrMissingSchema = errors.New("form: schema is required")
	// ErrToggleUnavailable is returned when toggling a required object, which
	// offers no inclusion control.
	ErrToggleUnavailable = errors.New("form: required object has no toggle")
	// ErrDisabled is returned when toggling a disabled object.
	ErrDisabled = errors.New("form: object is disabled")
)
