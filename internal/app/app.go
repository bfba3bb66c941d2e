package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"scs-go/internal/board"
	"scs-go/internal/cache"
	"scs-go/internal/config"
	"scs-go/internal/console"
	"scs-go/internal/datafile"
	"scs-go/internal/encryption"
	"scs-go/internal/followup"
	"scs-go/internal/notify"
	"scs-go/internal/remote"
	"scs-go/internal/roster"
	"scs-go/internal/scs"
	"scs-go/internal/server"
	"scs-go/internal/source"
	"scs-go/internal/store"
	"scs-go/internal/tickets"
)

const (
	FollowUpsFile = "followups.json"
	StudentsFile  = "students.json"
)

// Options tunes how an App reports to the operator.
type Options struct {
	Stderr  io.Writer // defaults to os.Stderr
	Verbose bool      // send INFO and DEBUG to Stderr too
}

// App is the application layer between the CLI and the domain packages.
// It constructs all dependencies from config and drains pending side
// effects on Close.
type App struct {
	cfg        *config.Config
	logger     scs.Logger
	logFile    *os.File
	clock      scs.Clock
	cache      scs.Cache
	tickets    *tickets.Repository
	board      *board.Board
	encryptor  scs.Encryptor
	dispatcher *notify.Dispatcher
	followups  *followup.Log
	roster     *roster.Roster
	op         *Operation
}

// NewApp creates a fully wired App from the given config.
// command and parameters identify the CLI invocation in the audit log.
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, command, parameters string, opts Options) (*App, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}

	sessionID := scs.NewSessionID()
	sl, logFile, err := newLogger(cfg.LogDir, sessionID, opts.Stderr, stderrLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: sl}

	fail := func(err error) (*App, error) {
		logger.Error("startup failed", "command", command, "error", err)
		logFile.Close()
		return nil, err
	}

	c, err := cache.NewCacheFromConfig(cfg.Cache)
	if err != nil {
		return fail(fmt.Errorf("creating cache: %w", err))
	}
	if sc, ok := c.(*cache.SQLiteCache); ok {
		if status, rebuilt := sc.Rebuilt(); rebuilt {
			logger.Warn("cache schema could not be migrated, rebuilt empty", "schema", status.String())
		}
	}

	src, err := source.NewSourceFromConfig(ctx, cfg.Source)
	if err != nil {
		c.Close()
		return fail(fmt.Errorf("creating source: %w", err))
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		c.Close()
		return fail(fmt.Errorf("creating encryptor: %w", err))
	}

	mailer, err := notify.NewMailerFromConfig(cfg.Notify.Email)
	if err != nil {
		c.Close()
		return fail(fmt.Errorf("creating mailer: %w", err))
	}

	clock := scs.RealClock{}
	dispatcher := notify.NewDispatcherFromConfig(cfg.Notify, logger)

	fuOpts := followup.Options{Notifier: dispatcher, Logger: logger}
	if mailer != nil {
		fuOpts.Mailer = mailer
	}
	var pusher roster.Pusher
	if gp := notify.NewGitPusherFromConfig(cfg.Notify.Git); gp != nil {
		fuOpts.Pusher = gp
		pusher = gp
	}

	fuList := datafile.Open[scs.FollowUp](filepath.Join(cfg.DataDir, FollowUpsFile), logger)
	stList := datafile.Open[scs.Student](filepath.Join(cfg.DataDir, StudentsFile), logger)

	a := &App{
		cfg:        cfg,
		logger:     logger,
		logFile:    logFile,
		clock:      clock,
		cache:      c,
		tickets:    tickets.NewRepository(store.NewCollection[scs.Ticket](store.TicketsSpec, src, c, logger), clock, logger),
		board:      board.New(store.NewCollection[scs.Message](store.MessagesSpec, src, c, logger), clock, logger),
		encryptor:  enc,
		dispatcher: dispatcher,
		followups:  followup.New(fuList, clock, fuOpts),
		roster:     roster.New(stList, clock, dispatcher, pusher, logger),
		op:         NewOperation(sessionID, command, parameters, clock.Now()),
	}
	logger.Debug("command started", "command", command, "host", cfg.HostID)
	return a, nil
}

func (a *App) Config() *config.Config            { return a.cfg }
func (a *App) Logger() scs.Logger                { return a.logger }
func (a *App) Tickets() *tickets.Repository      { return a.tickets }
func (a *App) Board() *board.Board               { return a.board }
func (a *App) Followups() *followup.Log          { return a.followups }
func (a *App) Roster() *roster.Roster            { return a.roster }
func (a *App) Encryptor() scs.Encryptor          { return a.encryptor }
func (a *App) Operation() *Operation             { return a.op }
func (a *App) Server(root string) *server.Server { return server.New(root, a.logger) }

// NewConsole creates an interpreter bound to this App's stores.
// prompter may be nil when no terminal is attached.
func (a *App) NewConsole(out io.Writer, prompter console.Prompter) *console.Interpreter {
	return console.New(out, console.Options{
		Tickets:   a.tickets,
		Board:     a.board,
		Password:  a.cfg.Admin.Password,
		ExportDir: a.cfg.ExportDir,
		Encryptor: a.encryptor,
		Prompter:  prompter,
		Logger:    a.logger,
	})
}

// SetupKeys generates the export key pair, protecting the private key
// with passphrase.
func (a *App) SetupKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return err
	}
	a.logger.Info("encryption keys created", "public_key", a.cfg.Encryption.PublicKeyPath)
	return nil
}

// NeedsToken reports whether Commit needs a GitHub token.
func (a *App) NeedsToken() bool {
	return remote.NeedsToken(a.cfg.Remote)
}

// Commit pushes the current tickets and messages to the configured remote
// and returns what the remote stored for each file.
func (a *App) Commit(ctx context.Context, token string) ([]remote.FileMeta, error) {
	syncer, err := remote.NewSyncerFromConfig(ctx, a.cfg.Remote, token)
	if err != nil {
		return nil, fmt.Errorf("creating remote: %w", err)
	}
	files, err := remote.CollectionFiles(a.tickets.List(ctx), a.board.List(ctx))
	if err != nil {
		return nil, err
	}
	return remote.Push(ctx, syncer, files, a.logger)
}

// Fail marks the current operation as failed in the audit log.
func (a *App) Fail(err error) {
	a.op.Fail()
	a.logger.Error("command failed", "command", a.op.Command, "error", err)
}

// Close waits for queued side effects until ctx ends, then releases the
// cache and the log file.
func (a *App) Close(ctx context.Context) error {
	var firstErr error

	if err := a.dispatcher.Close(ctx); err != nil {
		firstErr = fmt.Errorf("draining notifications: %w", err)
	}

	if err := a.cache.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing cache: %w", err)
		}
	}

	a.logger.Info("command finished", a.op.LogArgs(a.clock.Now())...)

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
