package scs

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID is a record identifier. Stored data written by older clients may hold
// ids as numbers or as numeric strings; both decode to the same value.
// Anything non-numeric decodes as 0, which never wins a max-id scan.
type ID int64

// ParseID coerces a textual identifier the same way stored ids are coerced.
// A value with a fractional part or beyond the int64 range is 0, so "1.5"
// never matches ticket 1.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}
	return ID(f)
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = 0
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseID(s)
	default:
		*id = ParseID(string(data))
	}
	return nil
}
