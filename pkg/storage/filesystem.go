package storage

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStorage implements the Storage interface for interacting with
// the local filesystem.
type FilesystemStorage struct {
	Config Config
}

// NewFilesystemStorage returns storage rooted at config.Root/config.Bucket.
func NewFilesystemStorage(config Config) FilesystemStorage {
	return FilesystemStorage{
		Config: config,
	}
}

// Write writes the data to the key, creating directories as needed.
func (f FilesystemStorage) Write(ctx context.Context,
	key string,
	body []byte,
	options *Options) error {

	// make sure that the Options argument is valid
	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	filename := f.buildPath(key)

	// make sure directory exists.
	dir := filepath.Dir(filename)

	if err := f.ensureExists(dir, options); err != nil {
		return err
	}

	mode := options.Mode
	if mode == 0 {
		mode = 0644
	}

	return ioutil.WriteFile(filename, body, mode)
}

// Read reads the data from a file on the local filesystem.
func (f FilesystemStorage) Read(ctx context.Context,
	key string) ([]byte, error) {

	filename := f.buildPath(key)

	// check for existence of file
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, ErrNotFound
	}

	return ioutil.ReadFile(filename)
}

// Remove removes the file stored at key.
func (f FilesystemStorage) Remove(ctx context.Context, key string) error {
	err := os.Remove(f.buildPath(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// List returns the keys of the files directly under path.
func (f FilesystemStorage) List(ctx context.Context, path string) ([]string, error) {
	dir := f.buildPath(path)

	files, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(files))
	for _, info := range files {
		if info.IsDir() {
			continue
		}
		if len(path) == 0 {
			keys = append(keys, info.Name())
		} else {
			keys = append(keys, strings.TrimSuffix(path, "/")+"/"+info.Name())
		}
	}

	return keys, nil
}

func (f FilesystemStorage) buildPath(key string) string {
	parts := []string{
		f.Config.Root,
		f.Config.Bucket,
	}

	if len(key) > 0 {
		parts = append(parts, key)
	}

	s := strings.Join(parts, "/")

	return filepath.FromSlash(s)
}

func (f FilesystemStorage) ensureExists(dir string, options *Options) error {
	if options == nil {
		opts := NewOptions()
		options = &opts
	}

	mode := options.DirMode
	if mode == 0 {
		mode = 0755
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, mode); err != nil {
			return err
		}
	}

	return nil
}
