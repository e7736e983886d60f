package schema

import "errors"

var (
	// ErrUnsupportedType is returned for type tags outside the known set.
	ErrUnsupportedType = errors.New("schema: unsupported type")
	// ErrEmptyDocument signals a document without payload.
	ErrEmptyDocument = errors.New("schema: empty document")
	// ErrNotObject is returned when an object node was expected.
	ErrNotObject = errors.New("schema: node is not an object")
	// ErrInvalidSource is returned for empty locations and malformed URLs.
	ErrInvalidSource = errors.New("schema: invalid source")
)
