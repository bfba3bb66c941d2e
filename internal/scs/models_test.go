package scs

import (
	"encoding/json"
	"testing"
)

func TestTicket_KeepsUnknownMembers(t *testing.T) {
	in := `{"id":3,"subject":"s","body":"b","email":"e","status":"open","created":"2024-01-01T00:00:00.000Z",` +
		`"replies":[{"from":"admin","text":"t","when":"","via":"phone"}],"priority":"high","tags":["a","b"]}`

	var ticket Ticket
	if err := json.Unmarshal([]byte(in), &ticket); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if ticket.ID != 3 || ticket.Subject != "s" {
		t.Errorf("Ticket = %+v", ticket)
	}
	if len(ticket.Extra) != 2 || string(ticket.Extra["priority"]) != `"high"` {
		t.Errorf("Extra = %v", ticket.Extra)
	}
	if len(ticket.Replies) != 1 || string(ticket.Replies[0].Extra["via"]) != `"phone"` {
		t.Errorf("Replies = %+v", ticket.Replies)
	}

	out, err := json.Marshal(ticket)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal() = %s\nwant %s", out, in)
	}
}

func TestModels_NoUnknownMembers(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"text":"hi","When":""}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Extra != nil {
		t.Errorf("Extra = %v, want nil", m.Extra)
	}

	out, err := json.Marshal(Message{Text: "hi"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"text":"hi","when":""}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestModels_RejectNonObjects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		v    any
	}{
		{name: "ticket", in: `5`, v: &Ticket{}},
		{name: "follow-up", in: `"x"`, v: &FollowUp{}},
		{name: "student", in: `[1]`, v: &Student{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := json.Unmarshal([]byte(tt.in), tt.v); err == nil {
				t.Errorf("Unmarshal(%s) expected error", tt.in)
			}
		})
	}
}
