package scs

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "number", in: `7`, want: 7},
		{name: "numeric string", in: `"12"`, want: 12},
		{name: "padded string", in: `" 3 "`, want: 3},
		{name: "non-numeric string", in: `"abc"`, want: 0},
		{name: "empty string", in: `""`, want: 0},
		{name: "null", in: `null`, want: 0},
		{name: "fractional number", in: `1.5`, want: 0},
		{name: "fractional string", in: `"2.25"`, want: 0},
		{name: "integral float", in: `3.0`, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ID
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		ID ID `json:"id"`
	}{ID: 42})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"id":42}` {
		t.Errorf("Marshal() = %s, want %s", data, `{"id":42}`)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{in: "5", want: 5},
		{in: " 8 ", want: 8},
		{in: "4.0", want: 4},
		{in: "1e2", want: 100},
		{in: "1.5", want: 0},
		{in: "1.9", want: 0},
		{in: "-0.5", want: 0},
		{in: "1e30", want: 0},
		{in: "NaN", want: 0},
		{in: "Infinity", want: 0},
		{in: "x1", want: 0},
		{in: "", want: 0},
	}
	for _, tt := range tests {
		if got := ParseID(tt.in); got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
