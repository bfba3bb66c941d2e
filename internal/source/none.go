package source

import (
	"context"
	"errors"

	"scs-go/internal/scs"
)

// ErrNoSource is returned by NoneSource for every fetch.
var ErrNoSource = errors.New("no canonical source configured")

// NoneSource is used when the console works from its cache alone.
type NoneSource struct{}

func (NoneSource) Fetch(context.Context, string) ([]byte, error) {
	return nil, ErrNoSource
}

// Compile-time check that NoneSource implements scs.Source interface
var _ scs.Source = NoneSource{}
