package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Loader implements schema.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, ErrHTTPDisabled
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = ErrUnsupportedSource
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

var (
	// ErrHTTPDisabled is returned for URL sources when no client is configured.
	ErrHTTPDisabled = errors.New("loader: http support disabled")
	// ErrUnsupportedSource is returned for source kinds the loader cannot read.
	ErrUnsupportedSource = errors.New("loader: unsupported source kind")
)
