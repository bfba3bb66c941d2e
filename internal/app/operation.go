package app

import "time"

// Operation tracks one CLI invocation. Its outcome is written to the audit
// log when the App closes.
type Operation struct {
	SessionID  string
	Command    string
	Parameters string
	Status     string // "success" or "error"
	Started    time.Time
}

// NewOperation creates an operation that succeeds unless Fail is called.
func NewOperation(sessionID, command, parameters string, started time.Time) *Operation {
	return &Operation{
		SessionID:  sessionID,
		Command:    command,
		Parameters: parameters,
		Status:     "success",
		Started:    started,
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() { op.Status = "error" }

// Failed returns true if Fail has been called.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}

// LogArgs returns the key/value pairs describing the finished operation.
func (op *Operation) LogArgs(now time.Time) []any {
	args := []any{"command", op.Command, "status", op.Status, "duration", now.Sub(op.Started).Round(time.Millisecond)}
	if op.Parameters != "" {
		args = append(args, "parameters", op.Parameters)
	}
	return args
}
