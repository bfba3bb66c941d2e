package testutil

import (
	"sync"
	"time"

	"scs-go/internal/scs"
)

// FixedTime is the instant FixedClock starts at. Records created against it
// carry the timestamp "2024-01-15T10:30:00.000Z".
var FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is an scs.Clock that only moves when a test advances it.
// Safe for concurrent use, so background jobs may read it.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to FixedTime.
func FixedClock() *StubClock {
	return NewStubClock(FixedTime)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, e.g. to order replies.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Stamp is the stored form of the current time, as a new record would hold it.
func (c *StubClock) Stamp() string {
	return scs.NewTimestamp(c.Now()).String()
}

var _ scs.Clock = (*StubClock)(nil)
