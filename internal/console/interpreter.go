// Package console implements the support console command language.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"scs-go/internal/board"
	"scs-go/internal/scs"
	"scs-go/internal/tickets"
)

// Prompter reads a secret from the operator without echoing it.
type Prompter interface {
	ReadPassword(prompt string) (string, error)
}

// Options configures an Interpreter. Encryptor and Prompter are optional.
type Options struct {
	Tickets   *tickets.Repository
	Board     *board.Board
	Password  string
	ExportDir string
	Encryptor scs.Encryptor
	Prompter  Prompter
	Logger    scs.Logger
}

// Interpreter runs console commands and writes their output line by line.
// It has two modes, anonymous and admin, switched only by Login.
// It is not safe for concurrent use.
type Interpreter struct {
	out       io.Writer
	tickets   *tickets.Repository
	board     *board.Board
	password  string
	exportDir string
	encryptor scs.Encryptor
	prompter  Prompter
	logger    scs.Logger

	admin bool
}

func New(out io.Writer, opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = scs.NewNopLogger()
	}
	return &Interpreter{
		out:       out,
		tickets:   opts.Tickets,
		board:     opts.Board,
		password:  opts.Password,
		exportDir: opts.ExportDir,
		encryptor: opts.Encryptor,
		prompter:  opts.Prompter,
		logger:    opts.Logger,
	}
}

// Greet writes the banner shown when a session starts.
func (in *Interpreter) Greet() {
	in.writeLine(greeting)
}

// IsAdmin reports whether the session is in admin mode.
func (in *Interpreter) IsAdmin() bool { return in.admin }

// Login compares password with the shared secret and switches mode.
// A failed attempt drops admin mode. An empty secret admits nobody.
func (in *Interpreter) Login(password string) bool {
	in.admin = in.password != "" && password == in.password
	if in.admin {
		in.logger.Info("admin login ok")
		in.writeLine("Admin login OK")
	} else {
		in.logger.Warn("admin login failed")
		in.writeLine("Admin login FAILED")
	}
	return in.admin
}

// Execute runs one command line. Blank lines are ignored. Errors from the
// stores are rendered as a single line; Execute itself never fails.
func (in *Interpreter) Execute(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	in.writeLine("> " + line)

	args := Tokenize(line)
	if len(args) == 0 {
		in.writeLine(unknownCommand)
		return
	}
	name := strings.ToLower(args[0])
	in.logger.Debug("command", "name", name, "args", len(args)-1)

	if err := in.dispatch(ctx, name, args); err != nil {
		in.renderError(name, err)
	}
}

const unknownCommand = "Unknown command. Type help."

func (in *Interpreter) dispatch(ctx context.Context, name string, args []string) error {
	switch {
	case name == "help":
		for _, l := range helpLines {
			in.writeLine(l)
		}
		return nil
	case name == "login":
		return in.cmdLogin()
	case name == "view" && arg(args, 1) == "tickets":
		return in.cmdViewTickets(ctx)
	case name == "view" && arg(args, 1) == "ticket":
		return in.cmdViewTicket(ctx, arg(args, 2))
	case name == "reply":
		return in.cmdReply(ctx, args)
	case name == "newticket":
		return in.cmdNewTicket(ctx, args)
	case name == "list" && arg(args, 1) == "messages":
		return in.cmdListMessages(ctx)
	case name == "post":
		return in.cmdPost(ctx, args)
	case name == "export" && (arg(args, 1) == "tickets" || arg(args, 1) == "messages"):
		return in.cmdExport(ctx, args)
	case name == "import":
		return in.cmdImport(ctx, args)
	case name == "commit":
		in.writeLine(`Use "scs commit" to push changes (GitHub requires a personal access token).`)
		return nil
	}
	in.writeLine(unknownCommand)
	return nil
}

func (in *Interpreter) renderError(name string, err error) {
	in.logger.Warn("command failed", "name", name, "error", err)
	switch {
	case errors.Is(err, scs.ErrUnauthorized):
		in.writeLine("Admin only")
	case errors.Is(err, scs.ErrNotFound):
		in.writeLine("Error: Ticket not found")
	default:
		in.writeLine("Error: " + err.Error())
	}
}

func (in *Interpreter) writeLine(s string) {
	fmt.Fprintln(in.out, s)
}

func (in *Interpreter) requireAdmin() error {
	if !in.admin {
		return scs.ErrUnauthorized
	}
	return nil
}

// arg returns args[i], or "" when there is no such argument.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// rest joins args[from:] with spaces and strips surrounding quotes again.
func rest(args []string, from int) string {
	if from >= len(args) {
		return ""
	}
	return unquote(strings.Join(args[from:], " "))
}
