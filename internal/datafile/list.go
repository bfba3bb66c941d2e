// Package datafile keeps a JSON array in a single file. It is the storage
// of the privileged context, where the file on disk is the source of truth.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"scs-go/internal/fs"
	"scs-go/internal/scs"
)

// List is an append-only JSON array file, loaded once and rewritten in full
// on every append.
type List[T any] struct {
	mu     sync.Mutex
	path   string
	items  []T
	logger scs.Logger
}

// Open loads the list stored at path. A missing file is an empty list; an
// unreadable or corrupt file is logged and also treated as empty.
func Open[T any](path string, logger scs.Logger) *List[T] {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	l := &List[T]{path: path, logger: logger}
	l.items = l.load()
	return l
}

func (l *List[T]) load() []T {
	data, err := fs.ReadRegularFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}
		}
		l.logger.Error("failed to read data file", "path", l.path, "error", err)
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		l.logger.Error("data file is corrupt, starting empty", "path", l.path, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Path returns the file the list is stored in.
func (l *List[T]) Path() string { return l.path }

// Len returns the number of records.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// All returns a copy of the records in insertion order.
func (l *List[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Append builds a record from the current length, persists the extended
// list and returns the record. If build or the write fails, the list is
// unchanged.
func (l *List[T]) Append(build func(n int) (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	item, err := build(len(l.items))
	if err != nil {
		return zero, err
	}

	next := make([]T, len(l.items), len(l.items)+1)
	copy(next, l.items)
	next = append(next, item)

	if err := l.persist(next); err != nil {
		return zero, err
	}
	l.items = next
	return item, nil
}

func (l *List[T]) persist(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", l.path, err)
	}
	if err := fs.WriteFileAtomic(l.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", l.path, err)
	}
	return nil
}
