package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fuel-dashboard/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrUnavailable marks failures to obtain a payload at all.
var ErrUnavailable = errors.New("source unavailable")

// Source produces one raw payload per pipeline run.
type Source interface {
	// Name identifies the source in logs and reports.
	Name() string
	// Fetch returns the raw payload bytes.
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads a payload previously written to disk.
type FileSource struct {
	Path string
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, f.Path, err)
	}
	return data, nil
}

// ArchiveSource replays a payload from the object storage archive.
type ArchiveSource struct {
	Client storage.Client
	Bucket string
	Object string
}

func (a *ArchiveSource) Name() string { return "archive" }

func (a *ArchiveSource) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := a.Client.GetObject(ctx, a.Bucket, a.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", ErrUnavailable, a.Bucket, a.Object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s/%s: %v", ErrUnavailable, a.Bucket, a.Object, err)
	}
	return data, nil
}
