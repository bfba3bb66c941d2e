package scs

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the ISO-8601 form used in stored collections:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a point in time that encodes as TimestampLayout.
//
// Decoding never fails. Any RFC 3339 string sets Time; a value in another
// form (a date, a number, null) leaves Time zero. Either way a value that
// does not match TimestampLayout is re-encoded exactly as it was read.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp truncates t to milliseconds so a value survives a JSON round-trip.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// String formats Time, or returns the stored text when Time is unknown.
func (t Timestamp) String() string {
	if !t.Time.IsZero() {
		return t.UTC().Format(TimestampLayout)
	}
	if t.raw == "" || t.raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(t.raw), &s); err == nil {
		return s
	}
	return t.raw
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.raw != "" {
		return []byte(t.raw), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Timestamp{}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.raw = string(data)
		return nil
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.raw = string(data)
		return nil
	}
	*t = NewTimestamp(parsed)
	if canonical, _ := json.Marshal(t.String()); !bytes.Equal(canonical, data) {
		t.raw = string(data)
	}
	return nil
}
