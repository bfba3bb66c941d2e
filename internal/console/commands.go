package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"scs-go/internal/encryption"
	"scs-go/internal/fs"
	"scs-go/internal/scs"
	"scs-go/internal/tickets"
)

// consoleDefaultSubject is what newticket files when no subject is given.
const consoleDefaultSubject = "No subject"

func (in *Interpreter) cmdLogin() error {
	if in.prompter == nil {
		in.writeLine("Enter admin password and click Login button.")
		return nil
	}
	in.writeLine("Enter admin password.")
	password, err := in.prompter.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	in.Login(password)
	return nil
}

func (in *Interpreter) cmdViewTickets(ctx context.Context) error {
	list := in.tickets.List(ctx)
	if len(list) == 0 {
		in.writeLine("No tickets")
		return nil
	}
	for _, t := range list {
		in.writeLine(fmt.Sprintf("#%s | %s | %s", t.ID, t.Subject, t.Status))
	}
	return nil
}

func (in *Interpreter) cmdViewTicket(ctx context.Context, id string) error {
	t, ok := in.tickets.Get(ctx, scs.ParseID(id))
	if !ok {
		in.writeLine("Ticket not found")
		return nil
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ticket: %w", err)
	}
	in.writeLine(string(data))
	return nil
}

func (in *Interpreter) cmdReply(ctx context.Context, args []string) error {
	if err := in.requireAdmin(); err != nil {
		return err
	}
	rawID := arg(args, 1)
	text := rest(args, 2)
	if !isNonZeroNumber(rawID) || text == "" {
		in.writeLine(`Usage: reply <id> "message"`)
		return nil
	}
	id := scs.ParseID(rawID)
	if _, err := in.tickets.AddReply(ctx, id, scs.Reply{From: "admin", Text: text}); err != nil {
		return err
	}
	in.writeLine(fmt.Sprintf("Reply added to ticket #%s", id))
	return nil
}

func (in *Interpreter) cmdNewTicket(ctx context.Context, args []string) error {
	subject := arg(args, 1)
	if subject == "" {
		subject = consoleDefaultSubject
	}
	t, err := in.tickets.Create(ctx, tickets.NewTicket{
		Subject: subject,
		Body:    arg(args, 2),
		Email:   arg(args, 3),
	})
	if err != nil {
		return err
	}
	in.writeLine(fmt.Sprintf("Ticket created #%s", t.ID))
	return nil
}

func (in *Interpreter) cmdListMessages(ctx context.Context) error {
	for _, m := range in.board.List(ctx) {
		in.writeLine(fmt.Sprintf("%s | %s", m.When, m.Text))
	}
	return nil
}

func (in *Interpreter) cmdPost(ctx context.Context, args []string) error {
	if err := in.requireAdmin(); err != nil {
		return err
	}
	text := rest(args, 1)
	if text == "" {
		in.writeLine(`Usage: post "message"`)
		return nil
	}
	if _, err := in.board.Post(ctx, scs.Message{Text: text}); err != nil {
		return err
	}
	in.writeLine("Message posted.")
	return nil
}

func (in *Interpreter) download(ctx context.Context, which string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if which == "tickets" {
		err = in.tickets.Download(ctx, &buf)
	} else {
		err = in.board.Download(ctx, &buf)
	}
	return buf.Bytes(), err
}

func (in *Interpreter) importData(ctx context.Context, which string, data []byte) error {
	if which == "tickets" {
		return in.tickets.Import(ctx, data)
	}
	return in.board.Import(ctx, data)
}

// cmdExport writes the cached collection to <export dir>/<which>.json, or
// an age-encrypted <which>.json.age with --encrypt.
func (in *Interpreter) cmdExport(ctx context.Context, args []string) error {
	which := args[1]
	encrypt := arg(args, 2) == "--encrypt"

	data, err := in.download(ctx, which)
	if err != nil {
		return err
	}

	name := which + ".json"
	if encrypt {
		if in.encryptor == nil || !in.encryptor.IsConfigured() {
			return errors.New(`no encryption keys (run "scs keys init")`)
		}
		data, err = encryption.EncryptBytes(in.encryptor, data)
		if err != nil {
			return fmt.Errorf("encrypting export: %w", err)
		}
		name += ".age"
	}

	path := filepath.Join(in.exportDir, name)
	if err := fs.WriteFileAtomic(path, data, 0600); err != nil {
		return err
	}
	in.logger.Info("collection exported", "collection", which, "path", path, "encrypted", encrypt)
	in.writeLine("Export started (download).")
	in.writeLine(path)
	return nil
}

// cmdImport reads a file and replaces the named collection with it.
// age-encrypted files are decrypted with a passphrase read from the prompter.
func (in *Interpreter) cmdImport(ctx context.Context, args []string) error {
	which := arg(args, 1)
	path := arg(args, 2)
	if (which != "tickets" && which != "messages") || path == "" {
		in.writeLine("Usage: import tickets|messages <file>")
		return nil
	}

	data, err := fs.ReadRegularFile(path)
	if err != nil {
		return err
	}

	if in.encryptor != nil && in.encryptor.IsEncrypted(data) {
		if in.prompter == nil {
			return errors.New("file is encrypted and no passphrase prompt is available")
		}
		passphrase, err := in.prompter.ReadPassword("Passphrase: ")
		if err != nil {
			return fmt.Errorf("reading passphrase: %w", err)
		}
		data, err = encryption.DecryptBytes(in.encryptor, data, passphrase)
		if err != nil {
			return err
		}
	}

	if err := in.importData(ctx, which, data); err != nil {
		if errors.Is(err, scs.ErrValidation) {
			in.logger.Warn("import rejected", "collection", which, "path", path, "error", err)
			in.writeLine("Invalid JSON file.")
			return nil
		}
		return err
	}
	in.logger.Info("collection imported", "collection", which, "path", path)
	in.writeLine(fmt.Sprintf("Imported %s JSON (local).", which))
	return nil
}

// isNonZeroNumber reports whether s reads as a number other than zero.
// "1.5" qualifies here even though it names no ticket.
func isNonZeroNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && !math.IsNaN(f) && f != 0
}
