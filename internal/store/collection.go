// Package store keeps named JSON-array collections in the local cache,
// refreshing them from a canonical source when it is reachable.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/tidwall/jsonc"

	"scs-go/internal/scs"
)

var emptyArray = []byte("[]")

// Collection is one named JSON array of T.
//
// Reads prefer the canonical Source and fall back to the Cache; writes only
// ever touch the Cache. Every operation reloads the whole array, so two
// overlapping writers on the same collection can lose an update.
type Collection[T any] struct {
	name   string
	key    string
	path   string
	source scs.Source
	cache  scs.Cache
	logger scs.Logger
}

// Spec names a collection: Key is its cache key, Path its location on the source.
type Spec struct {
	Name string
	Key  string
	Path string
}

// NewCollection creates a Collection. A nil logger discards output.
func NewCollection[T any](spec Spec, source scs.Source, cache scs.Cache, logger scs.Logger) *Collection[T] {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	return &Collection[T]{
		name:   spec.Name,
		key:    spec.Key,
		path:   spec.Path,
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Name returns the collection name, e.g. "tickets".
func (c *Collection[T]) Name() string { return c.name }

// Load returns the current list. A successful fetch from the source
// overwrites the cache; any fetch failure falls back to the cached value,
// and a missing or unreadable cache yields an empty list. Load never fails.
func (c *Collection[T]) Load(ctx context.Context) []T {
	if list, ok := c.fetch(ctx); ok {
		return list
	}

	raw, ok, err := c.cache.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("reading cache failed", "collection", c.name, "error", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	list, err := decodeList[T](raw)
	if err != nil {
		c.logger.Error("cached collection is corrupt", "collection", c.name, "error", err)
		return []T{}
	}
	return list
}

// fetch reads the canonical copy and refreshes the cache with it.
func (c *Collection[T]) fetch(ctx context.Context) ([]T, bool) {
	if c.source == nil {
		return nil, false
	}

	raw, err := c.source.Fetch(ctx, c.path)
	if err != nil {
		c.logger.Debug("fetch failed, using cache", "collection", c.name, "error", err)
		return nil, false
	}

	list, err := decodeList[T](raw)
	if err != nil {
		c.logger.Warn("canonical copy is not a valid collection, using cache", "collection", c.name, "error", err)
		return nil, false
	}

	if err := c.cache.Put(ctx, c.key, raw); err != nil {
		c.logger.Warn("refreshing cache failed", "collection", c.name, "error", err)
	}
	return list, true
}

// Save replaces the cached list. A nil list is stored as [].
func (c *Collection[T]) Save(ctx context.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.name, err)
	}
	if err := c.cache.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("saving %s: %w", c.name, err)
	}
	return nil
}

// Download writes the cached bytes, or [] when nothing is cached, to w.
func (c *Collection[T]) Download(ctx context.Context, w io.Writer) error {
	raw, ok, err := c.cache.Get(ctx, c.key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.name, err)
	}
	if !ok {
		raw = emptyArray
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// Import replaces the cache with data. data may contain comments and
// trailing commas; it must be a JSON array whose elements decode as T,
// otherwise scs.ErrValidation is returned and the cache is untouched.
func (c *Collection[T]) Import(ctx context.Context, data []byte) error {
	list, err := decodeList[T](jsonc.ToJSON(data))
	if err != nil {
		return fmt.Errorf("invalid %s JSON: %w", c.name, err)
	}
	return c.Save(ctx, list)
}

// ImportList replaces the cache with v, which must be a []T.
func (c *Collection[T]) ImportList(ctx context.Context, v any) error {
	list, ok := v.([]T)
	if !ok {
		return fmt.Errorf("invalid %s: got %s, want a list: %w", c.name, typeName(v), scs.ErrValidation)
	}
	return c.Save(ctx, list)
}

// decodeList decodes raw into []T, requiring a top-level JSON array.
func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("not a JSON array: %w", scs.ErrValidation)
	}
	var list []T
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("%v: %w", err, scs.ErrValidation)
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
