package source

import (
	"context"
	"fmt"
	"os"

	"scs-go/internal/fs"
	"scs-go/internal/scs"
)

// FileSystemSource reads collections from a directory, typically a checkout
// of the repository the data is committed to.
type FileSystemSource struct {
	root string
}

// NewFileSystemSource creates a source rooted at root.
func NewFileSystemSource(root string) *FileSystemSource {
	return &FileSystemSource{root: root}
}

func (s *FileSystemSource) Fetch(_ context.Context, path string) ([]byte, error) {
	full, err := fs.Within(s.root, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Compile-time check that FileSystemSource implements scs.Source interface
var _ scs.Source = (*FileSystemSource)(nil)
