package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/i18n"
)

// Option configures a Factory.
type Option func(*Factory)

// WithForceDisplayOptional starts every optional object included, as if the
// user had already opted in.
func WithForceDisplayOptional(force bool) Option {
	return func(f *Factory) {
		f.forceDisplay = force
	}
}

// WithLogger routes construction and toggle events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTranslator sets the translator used for toggle labels.
func WithTranslator(t i18n.Translator) Option {
	return func(f *Factory) {
		f.translator = t
	}
}

// WithLocale selects the locale passed to the translator.
func WithLocale(locale string) Option {
	return func(f *Factory) {
		f.locale = locale
	}
}

// WithConstructor registers a constructor at build time. See Factory.Register.
func WithConstructor(typ Type, ctor Constructor) Option {
	return func(f *Factory) {
		f.Register(typ, ctor)
	}
}
