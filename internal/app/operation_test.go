package app

import (
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	started := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		command    string
		parameters string
	}{
		{
			name:       "with parameters",
			command:    "exec",
			parameters: "view tickets",
		},
		{
			name:       "empty parameters",
			command:    "commit",
			parameters: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("session-1", tt.command, tt.parameters, started)

			if op.Command != tt.command {
				t.Errorf("Command = %q, want %q", op.Command, tt.command)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.Status != "success" {
				t.Errorf("Status = %q, want %q", op.Status, "success")
			}
			if op.Failed() {
				t.Error("Failed() = true for a new operation")
			}
		})
	}
}

func TestOperation_Fail(t *testing.T) {
	op := NewOperation("s", "commit", "", time.Now())
	op.Fail()

	if !op.Failed() {
		t.Error("Failed() = false after Fail()")
	}
	if op.Status != "error" {
		t.Errorf("Status = %q, want %q", op.Status, "error")
	}
}

func TestOperation_LogArgs(t *testing.T) {
	started := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		parameters string
		wantLen    int
	}{
		{name: "without parameters", parameters: "", wantLen: 6},
		{name: "with parameters", parameters: "reply 1 hi", wantLen: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("s", "exec", tt.parameters, started)
			args := op.LogArgs(started.Add(1500 * time.Millisecond))

			if len(args) != tt.wantLen {
				t.Fatalf("len(LogArgs()) = %d, want %d", len(args), tt.wantLen)
			}
			if args[5] != 1500*time.Millisecond {
				t.Errorf("duration = %v, want %v", args[5], 1500*time.Millisecond)
			}
		})
	}
}
