// Package board holds the public message board. Newest messages come first.
package board

import (
	"context"
	"fmt"
	"io"
	"strings"

	"scs-go/internal/scs"
	"scs-go/internal/store"
)

// Board posts and lists broadcast messages.
type Board struct {
	coll   *store.Collection[scs.Message]
	clock  scs.Clock
	logger scs.Logger
}

func New(coll *store.Collection[scs.Message], clock scs.Clock, logger scs.Logger) *Board {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	return &Board{coll: coll, clock: clock, logger: logger}
}

// List returns messages newest first.
func (b *Board) List(ctx context.Context) []scs.Message {
	return b.coll.Load(ctx)
}

// Post prepends msg to the board. Blank text is rejected with
// scs.ErrValidation; a zero When is set to now.
func (b *Board) Post(ctx context.Context, msg scs.Message) (scs.Message, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return scs.Message{}, fmt.Errorf("message text is empty: %w", scs.ErrValidation)
	}
	if msg.When.IsZero() {
		msg.When = scs.NewTimestamp(b.clock.Now())
	}

	list := b.coll.Load(ctx)
	list = append([]scs.Message{msg}, list...)
	if err := b.coll.Save(ctx, list); err != nil {
		return scs.Message{}, fmt.Errorf("posting message: %w", err)
	}

	b.logger.Info("message posted", "when", msg.When.String())
	return msg, nil
}

// Save replaces the whole board.
func (b *Board) Save(ctx context.Context, list []scs.Message) error {
	return b.coll.Save(ctx, list)
}

// Download writes the cached board to w.
func (b *Board) Download(ctx context.Context, w io.Writer) error {
	return b.coll.Download(ctx, w)
}

// Import replaces the cached board with data.
func (b *Board) Import(ctx context.Context, data []byte) error {
	return b.coll.Import(ctx, data)
}
