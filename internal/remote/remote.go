// Package remote pushes the console collections to a shared repository.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"scs-go/internal/scs"
)

// Syncer stores one file in the remote, creating or replacing it, and
// reports what the remote now holds.
type Syncer interface {
	PutFile(ctx context.Context, path string, content []byte, message string) (FileMeta, error)
}

// FileMeta describes a file as the remote stored it.
// For GitHub SHA is the blob sha and Revision the commit sha; for S3 they
// are the object ETag and version id.
type FileMeta struct {
	Path     string
	SHA      string
	Revision string
}

// File is one file to push.
type File struct {
	Path    string
	Content []byte
	Message string
}

// Repository paths and commit messages for the console collections.
const (
	TicketsPath     = "data/tickets.json"
	MessagesPath    = "data/messages.json"
	TicketsMessage  = "Update tickets via console"
	MessagesMessage = "Update messages via console"
)

// CollectionFiles renders the two collections as pretty-printed JSON files.
func CollectionFiles(tickets []scs.Ticket, messages []scs.Message) ([]File, error) {
	if tickets == nil {
		tickets = []scs.Ticket{}
	}
	if messages == nil {
		messages = []scs.Message{}
	}

	ticketsJSON, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tickets: %w", err)
	}
	messagesJSON, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding messages: %w", err)
	}

	return []File{
		{Path: TicketsPath, Content: ticketsJSON, Message: TicketsMessage},
		{Path: MessagesPath, Content: messagesJSON, Message: MessagesMessage},
	}, nil
}

// Push uploads files in order and stops at the first failure. It returns
// the metadata of every file written before that point.
func Push(ctx context.Context, s Syncer, files []File, logger scs.Logger) ([]FileMeta, error) {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	var written []FileMeta
	for _, f := range files {
		meta, err := s.PutFile(ctx, f.Path, f.Content, f.Message)
		if err != nil {
			logger.Error("remote push failed", "path", f.Path, "error", err)
			return written, fmt.Errorf("pushing %s: %w", f.Path, err)
		}
		logger.Info("remote push succeeded", "path", meta.Path, "bytes", len(f.Content), "sha", meta.SHA, "revision", meta.Revision)
		written = append(written, meta)
	}
	return written, nil
}
