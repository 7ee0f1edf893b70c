package storage

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a key doesn't exist in the store.
	ErrNotFound = errors.New("Not found")
)

// Storage is a bucket style blob store.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error

	// List returns the keys under a path. The path can be empty.
	List(ctx context.Context, path string) ([]string, error)
}

// Options are applied to a write.
type Options struct {
	Mode    os.FileMode
	DirMode os.FileMode

	// TTL is the object lifetime in seconds. Zero never expires.
	TTL int64
}

func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}

// New returns filesystem storage for the "standalone" bucket and S3 storage
// otherwise.
func New(config Config) Storage {
	if strings.ToLower(config.Bucket) == "standalone" {
		return NewFilesystemStorage(config)
	}
	return NewS3Storage(config)
}
