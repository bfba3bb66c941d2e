package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"scs-go/internal/fs"
	"scs-go/internal/scs"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileSystemCache stores each key as a file in a directory:
//
//	<root>/
//	  <key>.json
//
// Writes are atomic (temp file + rename).
type FileSystemCache struct {
	root string
}

// NewFileSystemCache creates the cache directory if needed.
func NewFileSystemCache(root string) (*FileSystemCache, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileSystemCache{root: root}, nil
}

func (c *FileSystemCache) pathFor(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid cache key: %q", key)
	}
	return filepath.Join(c.root, key+".json"), nil
}

func (c *FileSystemCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := c.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache key %s: %w", key, err)
	}
	return data, true, nil
}

func (c *FileSystemCache) Put(_ context.Context, key string, value []byte) error {
	path, err := c.pathFor(key)
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(path, value, 0644)
}

func (c *FileSystemCache) Close() error { return nil }

// Compile-time check that FileSystemCache implements scs.Cache interface
var _ scs.Cache = (*FileSystemCache)(nil)
