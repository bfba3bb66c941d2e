package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// testCacheContract exercises the behavior every Cache backend must share.
func testCacheContract(t *testing.T, c scs.Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := c.Get(ctx, "scs6027_missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Errorf("Get() ok = true, want false (value %q)", value)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		if err := c.Put(ctx, "scs6027_tickets", []byte(`[{"id":1}]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		value, ok, err := c.Get(ctx, "scs6027_tickets")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok {
			t.Fatal("Get() ok = false, want true")
		}
		if string(value) != `[{"id":1}]` {
			t.Errorf("Get() = %q, want %q", value, `[{"id":1}]`)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		if err := c.Put(ctx, "scs6027_messages", []byte(`[1]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := c.Put(ctx, "scs6027_messages", []byte(`[2]`)); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}
		value, _, err := c.Get(ctx, "scs6027_messages")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(value) != `[2]` {
			t.Errorf("Get() = %q, want %q", value, `[2]`)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		value, _, err := c.Get(ctx, "scs6027_tickets")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(value) != `[{"id":1}]` {
			t.Errorf("Get(tickets) = %q after writing messages", value)
		}
	})
}

func TestMemoryCache(t *testing.T) {
	testCacheContract(t, NewMemoryCache())
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	value := []byte(`[]`)
	if err := c.Put(ctx, "k", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value[0] = 'X'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != `[]` {
		t.Errorf("Get() = %q, stored value was aliased", got)
	}
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteCache() error = %v", err)
	}
	defer c.Close()

	status, err := c.Schema()
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if status.Version != status.Latest || status.Dirty {
		t.Errorf("Schema() = %s, want latest and clean", status)
	}
	if _, rebuilt := c.Rebuilt(); rebuilt {
		t.Error("Rebuilt() = true for a new database")
	}
	testCacheContract(t, c)
}

func TestSQLiteCache_RebuildsUnusableSchema(t *testing.T) {
	tests := []struct {
		name   string
		update string
	}{
		{name: "newer binary", update: "UPDATE schema_migrations SET version = 99"},
		{name: "dirty", update: "UPDATE schema_migrations SET dirty = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cache.db")
			ctx := context.Background()

			c, err := NewSQLiteCache(path)
			if err != nil {
				t.Fatalf("NewSQLiteCache() error = %v", err)
			}
			if err := c.Put(ctx, "scs6027_tickets", []byte(`[{"id":1}]`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if _, err := c.db.Exec(tt.update); err != nil {
				t.Fatalf("%s: %v", tt.update, err)
			}
			c.Close()

			reopened, err := NewSQLiteCache(path)
			if err != nil {
				t.Fatalf("reopen NewSQLiteCache() error = %v", err)
			}
			defer reopened.Close()

			if _, rebuilt := reopened.Rebuilt(); !rebuilt {
				t.Error("Rebuilt() = false, want true")
			}
			if _, ok, _ := reopened.Get(ctx, "scs6027_tickets"); ok {
				t.Error("Get() found a value from the discarded database")
			}
			status, err := reopened.Schema()
			if err != nil || !status.Usable() || status.Version != status.Latest {
				t.Errorf("Schema() = %s, %v", status, err)
			}
			testCacheContract(t, reopened)
		})
	}
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	ctx := context.Background()

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("NewSQLiteCache() error = %v", err)
	}
	if err := c.Put(ctx, "scs6027_tickets", []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	c.Close()

	reopened, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteCache() error = %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "scs6027_tickets")
	if err != nil || !ok {
		t.Fatalf("Get() = %q, %v, %v", value, ok, err)
	}
}

func TestFileSystemCache(t *testing.T) {
	c, err := NewFileSystemCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileSystemCache() error = %v", err)
	}
	testCacheContract(t, c)
}

func TestFileSystemCache_RejectsPathKeys(t *testing.T) {
	c, err := NewFileSystemCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemCache() error = %v", err)
	}
	if err := c.Put(context.Background(), "../escape", []byte(`[]`)); err == nil {
		t.Error("Put() expected error for key with path separators")
	}
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, redisKeyPrefix)
	defer c.Close()

	testCacheContract(t, c)

	if !mr.Exists("scs:scs6027_tickets") {
		t.Error("expected key to be stored with the scs: prefix")
	}
}

func TestNewCacheFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.CacheConfig{Type: "memory"}},
		{name: "sqlite", cfg: config.CacheConfig{Type: "sqlite", DataDir: t.TempDir()}},
		{name: "sqlite without data_dir", cfg: config.CacheConfig{Type: "sqlite"}, wantErr: true},
		{name: "filesystem", cfg: config.CacheConfig{Type: "filesystem", DataDir: t.TempDir()}},
		{name: "filesystem without data_dir", cfg: config.CacheConfig{Type: "filesystem"}, wantErr: true},
		{name: "redis without addr", cfg: config.CacheConfig{Type: "redis"}, wantErr: true},
		{name: "unknown type", cfg: config.CacheConfig{Type: "localstorage"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCacheFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("NewCacheFromConfig() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCacheFromConfig() unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("NewCacheFromConfig() returned nil")
			}
			got.Close()
		})
	}
}
