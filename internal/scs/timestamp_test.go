package scs

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC))

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2024-01-15T10:30:00.123Z"` {
		t.Errorf("Marshal() = %s", data)
	}

	var got Timestamp
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(ts.Time) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}

func TestTimestamp_UnmarshalAcceptsRFC3339(t *testing.T) {
	var got Timestamp
	if err := json.Unmarshal([]byte(`"2024-06-15T16:30:45+02:00"`), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.String() != "2024-06-15T14:30:45.000Z" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestTimestamp_Zero(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `""` {
		t.Errorf("Marshal(zero) = %s, want \"\"", data)
	}

	var got Timestamp
	if err := json.Unmarshal([]byte(`""`), &got); err != nil {
		t.Fatalf("Unmarshal(\"\") error = %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Unmarshal(\"\") = %v, want zero", got)
	}
}

func TestTimestamp_KeepsOriginalEncoding(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantString string
		wantZero   bool
	}{
		{name: "seconds precision", in: `"2024-01-01T00:00:00Z"`, wantString: "2024-01-01T00:00:00.000Z"},
		{name: "offset", in: `"2024-01-02T09:00:00+01:00"`, wantString: "2024-01-02T08:00:00.000Z"},
		{name: "microseconds", in: `"2024-01-01T00:00:00.123456Z"`, wantString: "2024-01-01T00:00:00.123Z"},
		{name: "date only", in: `"2024-05-01"`, wantString: "2024-05-01", wantZero: true},
		{name: "free text", in: `"yesterday"`, wantString: "yesterday", wantZero: true},
		{name: "number", in: `1714521600`, wantString: "1714521600", wantZero: true},
		{name: "null", in: `null`, wantString: "", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Timestamp
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if got.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantString)
			}
			if got.IsZero() != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", got.IsZero(), tt.wantZero)
			}

			data, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.in {
				t.Errorf("Marshal() = %s, want %s", data, tt.in)
			}
		})
	}
}
