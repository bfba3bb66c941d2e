package scs

import "context"

// Source is the canonical, read-only copy of the collections.
// Fetch returns the raw bytes stored at a relative path such as
// "data/tickets.json". Any failure, including a non-success status,
// is returned as an error; callers fall back to the Cache.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
