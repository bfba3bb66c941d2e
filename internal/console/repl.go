package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Run reads commands from r until EOF, "exit" or "quit", or until ctx ends.
// prompt is written before each read; pass "" for non-interactive input.
func (in *Interpreter) Run(ctx context.Context, r io.Reader, prompt string) error {
	in.Greet()
	scanner := bufio.NewScanner(r)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if prompt != "" {
			fmt.Fprint(in.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "exit", "quit":
			return nil
		}
		in.Execute(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// TermPrompter reads secrets from a terminal with echo disabled.
type TermPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTermPrompter returns a prompter on stdin, or nil when stdin is not a
// terminal.
func NewTermPrompter() *TermPrompter {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return &TermPrompter{In: os.Stdin, Out: os.Stderr}
}

func (p *TermPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	secret, err := term.ReadPassword(int(p.In.Fd()))
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
