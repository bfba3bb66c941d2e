package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnreachable is returned by StubSource while it is marked down.
var ErrUnreachable = errors.New("network unreachable")

// StubSource is an in-memory scs.Source whose availability tests can flip.
type StubSource struct {
	mu    sync.Mutex
	files map[string][]byte
	down  bool
	Calls int
}

// NewStubSource creates an empty, reachable source.
func NewStubSource() *StubSource {
	return &StubSource{files: make(map[string][]byte)}
}

// Set publishes data at path.
func (s *StubSource) Set(path string, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = []byte(data)
}

// SetDown makes every Fetch fail with ErrUnreachable while down is true.
func (s *StubSource) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *StubSource) Fetch(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	if s.down {
		return nil, ErrUnreachable
	}
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("fetching %s: unexpected status 404 Not Found", path)
	}
	return append([]byte(nil), data...), nil
}
