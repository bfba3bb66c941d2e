// Package followup records notes against tickets from the privileged
// context and fans them out to email and the repository.
package followup

import (
	"context"
	"fmt"

	"scs-go/internal/datafile"
	"scs-go/internal/scs"
)

// DefaultAuthor is used when a follow-up is added without an author.
const DefaultAuthor = "admin"

// CommitMessage is used when pushing the follow-up file.
const CommitMessage = "Update follow-ups [ci skip]"

// Mailer sends the notice for a new follow-up.
type Mailer interface {
	SendFollowUp(ctx context.Context, f scs.FollowUp) error
}

// Pusher commits and pushes a data file.
type Pusher interface {
	Push(ctx context.Context, file, message string) error
}

// Log is the follow-up file plus its side effects.
type Log struct {
	list     *datafile.List[scs.FollowUp]
	clock    scs.Clock
	notifier scs.Notifier
	mailer   Mailer
	pusher   Pusher
	logger   scs.Logger
}

// Options holds the optional collaborators of a Log. A nil Mailer or
// Pusher skips that side effect.
type Options struct {
	Notifier scs.Notifier
	Mailer   Mailer
	Pusher   Pusher
	Logger   scs.Logger
}

func New(list *datafile.List[scs.FollowUp], clock scs.Clock, opts Options) *Log {
	if opts.Logger == nil {
		opts.Logger = scs.NewNopLogger()
	}
	return &Log{
		list:     list,
		clock:    clock,
		notifier: opts.Notifier,
		mailer:   opts.Mailer,
		pusher:   opts.Pusher,
		logger:   opts.Logger,
	}
}

// Add appends a follow-up with id len+1 and persists it. The email and
// push are queued afterwards and never affect the result.
func (l *Log) Add(ctx context.Context, ticketID scs.ID, author, message string) (scs.FollowUp, error) {
	if author == "" {
		author = DefaultAuthor
	}

	f, err := l.list.Append(func(n int) (scs.FollowUp, error) {
		return scs.FollowUp{
			ID:        scs.ID(n + 1),
			TicketID:  ticketID,
			Author:    author,
			Message:   message,
			Timestamp: scs.NewTimestamp(l.clock.Now()),
		}, nil
	})
	if err != nil {
		return scs.FollowUp{}, fmt.Errorf("adding follow-up: %w", err)
	}
	l.logger.Info("follow-up added", "id", f.ID, "ticket", f.TicketID, "author", f.Author)

	l.dispatch(f)
	return f, nil
}

func (l *Log) dispatch(f scs.FollowUp) {
	if l.notifier == nil {
		return
	}
	if l.mailer != nil {
		l.notifier.Enqueue(scs.Job{
			Name: fmt.Sprintf("email follow-up #%s", f.ID),
			Run: func(ctx context.Context) error {
				return l.mailer.SendFollowUp(ctx, f)
			},
		})
	}
	if l.pusher != nil {
		path := l.list.Path()
		l.notifier.Enqueue(scs.Job{
			Name: fmt.Sprintf("push follow-up #%s", f.ID),
			Run: func(ctx context.Context) error {
				return l.pusher.Push(ctx, path, CommitMessage)
			},
		})
	}
}

// ListFor returns the follow-ups recorded against ticketID, oldest first.
// ID 0 (not a whole number) matches nothing.
func (l *Log) ListFor(ticketID scs.ID) []scs.FollowUp {
	if ticketID == 0 {
		return nil
	}
	var out []scs.FollowUp
	for _, f := range l.list.All() {
		if f.TicketID == ticketID {
			out = append(out, f)
		}
	}
	return out
}

// All returns every follow-up, oldest first.
func (l *Log) All() []scs.FollowUp {
	return l.list.All()
}
