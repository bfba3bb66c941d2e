package scs

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NewSessionID returns a random identifier for one CLI invocation.
// It tags every audit log line written during that invocation.
func NewSessionID() string { return uuid.New().String() }
