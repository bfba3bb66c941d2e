package scs

import "encoding/json"

// Status is the lifecycle state of a Ticket.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAnswered Status = "answered"
)

// Ticket is a support request filed by a visitor.
// Replies are kept in insertion order; that order is the ticket's history.
type Ticket struct {
	ID      ID        `json:"id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Email   string    `json:"email"`
	Status  Status    `json:"status"`
	Created Timestamp `json:"created"`
	Replies []Reply   `json:"replies"`
	Extra   Extra     `json:"-"`
}

// Reply is one response appended to a Ticket.
type Reply struct {
	From  string    `json:"from"`
	Text  string    `json:"text"`
	When  Timestamp `json:"when"`
	Extra Extra     `json:"-"`
}

// Message is a short broadcast posted by the operator.
type Message struct {
	Text  string    `json:"text"`
	When  Timestamp `json:"when"`
	Extra Extra     `json:"-"`
}

// FollowUp is a note recorded against a ticket from the privileged context.
// TicketID is not checked against existing tickets.
type FollowUp struct {
	ID        ID        `json:"id"`
	TicketID  ID        `json:"ticketId"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
	Extra     Extra     `json:"-"`
}

// Student is one entry of the roster.
type Student struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"createdAt"`
	Extra     Extra     `json:"-"`
}

var (
	ticketFields   = fieldNames(Ticket{})
	replyFields    = fieldNames(Reply{})
	messageFields  = fieldNames(Message{})
	followUpFields = fieldNames(FollowUp{})
	studentFields  = fieldNames(Student{})
)

func (t Ticket) MarshalJSON() ([]byte, error) {
	type plain Ticket
	return marshalWithExtra(plain(t), t.Extra)
}

func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	if err := json.Unmarshal(data, (*plain)(t)); err != nil {
		return err
	}
	extra, err := unknownMembers(data, ticketFields)
	t.Extra = extra
	return err
}

func (r Reply) MarshalJSON() ([]byte, error) {
	type plain Reply
	return marshalWithExtra(plain(r), r.Extra)
}

func (r *Reply) UnmarshalJSON(data []byte) error {
	type plain Reply
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	extra, err := unknownMembers(data, replyFields)
	r.Extra = extra
	return err
}

func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return marshalWithExtra(plain(m), m.Extra)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}
	extra, err := unknownMembers(data, messageFields)
	m.Extra = extra
	return err
}

func (f FollowUp) MarshalJSON() ([]byte, error) {
	type plain FollowUp
	return marshalWithExtra(plain(f), f.Extra)
}

func (f *FollowUp) UnmarshalJSON(data []byte) error {
	type plain FollowUp
	if err := json.Unmarshal(data, (*plain)(f)); err != nil {
		return err
	}
	extra, err := unknownMembers(data, followUpFields)
	f.Extra = extra
	return err
}

func (s Student) MarshalJSON() ([]byte, error) {
	type plain Student
	return marshalWithExtra(plain(s), s.Extra)
}

func (s *Student) UnmarshalJSON(data []byte) error {
	type plain Student
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	extra, err := unknownMembers(data, studentFields)
	s.Extra = extra
	return err
}
