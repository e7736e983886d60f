package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, name)
}
