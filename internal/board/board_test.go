package board

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scs-go/internal/cache"
	"scs-go/internal/scs"
	"scs-go/internal/store"
	"scs-go/internal/testutil"
)

func newBoard(t *testing.T) (*Board, *cache.MemoryCache, *testutil.StubClock) {
	t.Helper()
	src := testutil.NewStubSource()
	src.SetDown(true)
	c := cache.NewMemoryCache()
	clock := testutil.FixedClock()
	coll := store.NewCollection[scs.Message](store.MessagesSpec, src, c, nil)
	return New(coll, clock, nil), c, clock
}

func TestBoard_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario: newest first", func(t *testing.T) {
		b, _, clock := newBoard(t)

		_, err := b.Post(ctx, scs.Message{Text: "A"})
		require.NoError(t, err)
		clock.Advance(time.Second)
		_, err = b.Post(ctx, scs.Message{Text: "B"})
		require.NoError(t, err)

		list := b.List(ctx)
		require.Len(t, list, 2)
		assert.Equal(t, "B", list[0].Text)
		assert.Equal(t, "A", list[1].Text)
	})

	t.Run("defaults when to now", func(t *testing.T) {
		b, _, _ := newBoard(t)

		got, err := b.Post(ctx, scs.Message{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-15T10:30:00.000Z", got.When.String())
	})

	t.Run("rejects blank text", func(t *testing.T) {
		b, c, _ := newBoard(t)

		for _, text := range []string{"", "   ", "\t\n"} {
			_, err := b.Post(ctx, scs.Message{Text: text})
			assert.ErrorIs(t, err, scs.ErrValidation)
		}
		_, ok, err := c.Get(ctx, store.MessagesSpec.Key)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBoard_SaveDownloadImport(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newBoard(t)

	require.NoError(t, b.Save(ctx, nil))
	var buf strings.Builder
	require.NoError(t, b.Download(ctx, &buf))
	assert.Equal(t, "[]", buf.String())

	require.NoError(t, b.Import(ctx, []byte(`[
		// pinned
		{"text": "Welcome", "when": "2024-01-01T00:00:00.000Z"},
	]`)))
	list := b.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "Welcome", list[0].Text)

	assert.ErrorIs(t, b.Import(ctx, []byte(`"nope"`)), scs.ErrValidation)
	assert.Len(t, b.List(ctx), 1)
}
