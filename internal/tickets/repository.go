// Package tickets implements the ticket repository: creation by visitors,
// lookup, and operator replies.
package tickets

import (
	"context"
	"fmt"
	"io"

	"scs-go/internal/scs"
	"scs-go/internal/store"
)

// DefaultSubject is used when a ticket is filed without one.
const DefaultSubject = "(no subject)"

// NewTicket is the public submission that creates a Ticket.
type NewTicket struct {
	Subject string
	Body    string
	Email   string
}

// Repository reads and writes tickets through a store.Collection.
// It holds no state of its own: each call reloads the collection.
type Repository struct {
	coll   *store.Collection[scs.Ticket]
	clock  scs.Clock
	logger scs.Logger
}

// NewRepository creates a Repository over coll.
func NewRepository(coll *store.Collection[scs.Ticket], clock scs.Clock, logger scs.Logger) *Repository {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	return &Repository{coll: coll, clock: clock, logger: logger}
}

// List returns every ticket in stored order.
func (r *Repository) List(ctx context.Context) []scs.Ticket {
	return r.coll.Load(ctx)
}

// Create files a new open ticket with id max(existing)+1.
func (r *Repository) Create(ctx context.Context, in NewTicket) (*scs.Ticket, error) {
	list := r.coll.Load(ctx)

	subject := in.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	ticket := scs.Ticket{
		ID:      nextID(list),
		Subject: subject,
		Body:    in.Body,
		Email:   in.Email,
		Status:  scs.StatusOpen,
		Created: scs.NewTimestamp(r.clock.Now()),
		Replies: []scs.Reply{},
	}

	list = append(list, ticket)
	if err := r.coll.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	r.logger.Info("ticket created", "id", ticket.ID)
	return &ticket, nil
}

// Get returns the first ticket whose id equals id.
func (r *Repository) Get(ctx context.Context, id scs.ID) (*scs.Ticket, bool) {
	list := r.coll.Load(ctx)
	i := indexOf(list, id)
	if i < 0 {
		return nil, false
	}
	return &list[i], true
}

// AddReply appends reply to the ticket's history and marks it answered.
// It returns scs.ErrNotFound, without saving, if the ticket is absent.
func (r *Repository) AddReply(ctx context.Context, id scs.ID, reply scs.Reply) (*scs.Ticket, error) {
	list := r.coll.Load(ctx)
	i := indexOf(list, id)
	if i < 0 {
		return nil, fmt.Errorf("ticket #%s: %w", id, scs.ErrNotFound)
	}

	t := &list[i]
	if reply.When.IsZero() {
		reply.When = scs.NewTimestamp(r.clock.Now())
	}
	t.Replies = append(t.Replies, reply)
	t.Status = scs.StatusAnswered

	if err := r.coll.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("adding reply: %w", err)
	}

	r.logger.Info("reply added", "id", id, "from", reply.From)
	return t, nil
}

// Download writes the cached ticket collection to w.
func (r *Repository) Download(ctx context.Context, w io.Writer) error {
	return r.coll.Download(ctx, w)
}

// Import replaces the cached ticket collection with data.
func (r *Repository) Import(ctx context.Context, data []byte) error {
	return r.coll.Import(ctx, data)
}

func nextID(list []scs.Ticket) scs.ID {
	var max scs.ID
	for _, t := range list {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// indexOf finds id in list. 0 stands for an id that is not a whole number,
// on either side, and matches nothing.
func indexOf(list []scs.Ticket, id scs.ID) int {
	if id == 0 {
		return -1
	}
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
