// Package roster keeps the student list of the privileged context.
package roster

import (
	"context"
	"fmt"
	"strings"

	"scs-go/internal/datafile"
	"scs-go/internal/scs"
)

// CommitMessage is used when pushing the roster file.
const CommitMessage = "Update students [ci skip]"

// Pusher commits and pushes a data file.
type Pusher interface {
	Push(ctx context.Context, file, message string) error
}

type Roster struct {
	list     *datafile.List[scs.Student]
	clock    scs.Clock
	notifier scs.Notifier
	pusher   Pusher
	logger   scs.Logger
}

// New creates a Roster. A nil notifier or pusher skips the commit.
func New(list *datafile.List[scs.Student], clock scs.Clock, notifier scs.Notifier, pusher Pusher, logger scs.Logger) *Roster {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	return &Roster{list: list, clock: clock, notifier: notifier, pusher: pusher, logger: logger}
}

// Add appends a student. Name and email must both be non-blank.
func (r *Roster) Add(ctx context.Context, name, email string) (scs.Student, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return scs.Student{}, fmt.Errorf("Name and Email are required: %w", scs.ErrValidation)
	}

	s, err := r.list.Append(func(n int) (scs.Student, error) {
		return scs.Student{
			ID:        scs.ID(n + 1),
			Name:      name,
			Email:     email,
			CreatedAt: scs.NewTimestamp(r.clock.Now()),
		}, nil
	})
	if err != nil {
		return scs.Student{}, fmt.Errorf("adding student: %w", err)
	}
	r.logger.Info("student added", "id", s.ID, "email", s.Email)

	if r.notifier != nil && r.pusher != nil {
		path := r.list.Path()
		r.notifier.Enqueue(scs.Job{
			Name: fmt.Sprintf("push student #%s", s.ID),
			Run: func(ctx context.Context) error {
				return r.pusher.Push(ctx, path, CommitMessage)
			},
		})
	}
	return s, nil
}

// List returns the roster in insertion order.
func (r *Roster) List() []scs.Student {
	return r.list.All()
}
