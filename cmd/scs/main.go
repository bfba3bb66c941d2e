package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scs-go/internal/app"
	"scs-go/internal/config"
	"scs-go/internal/console"
	"scs-go/internal/scs"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// drainTimeout bounds how long a command waits for queued emails and pushes.
const drainTimeout = 30 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must close it.
// command and parameters identify the CLI invocation in the audit log.
func newApp(ctx context.Context, command, parameters string) (*app.App, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(paths.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, command, parameters, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a fresh App, records its outcome and drains
// pending side effects before returning.
func withApp(cmd *cobra.Command, parameters string, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd.CommandPath(), parameters)
	if err != nil {
		return err
	}

	runErr := fn(ctx, a)
	if runErr != nil {
		a.Fail(runErr)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// prompter returns a terminal prompter, or nil when stdin is not a terminal.
func prompter() console.Prompter {
	if p := console.NewTermPrompter(); p != nil {
		return p
	}
	return nil
}

func readSecret(prompt string) (string, error) {
	p := prompter()
	if p == nil {
		return "", errors.New("stdin is not a terminal")
	}
	return p.ReadPassword(prompt)
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "scs",
	Short:        "SCS6027 support console",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, paths.BaseDir)

		if err := config.Init(paths.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigPath)
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", paths.BaseDir)
		fmt.Println("Change [admin] password before sharing the console.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(paths.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("# Configuration from %s\n\n", paths.ConfigPath)
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg.Masked())
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage export encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the export key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "", func(ctx context.Context, a *app.App) error {
			passphrase, err := readSecret("Passphrase: ")
			if err != nil {
				return fmt.Errorf("reading passphrase: %w", err)
			}
			confirm, err := readSecret("Confirm passphrase: ")
			if err != nil {
				return fmt.Errorf("reading passphrase: %w", err)
			}
			if passphrase != confirm {
				return errors.New("passphrases do not match")
			}

			if err := a.SetupKeys(passphrase); err != nil {
				return err
			}
			fmt.Printf("Public key: %s\n", a.Config().Encryption.PublicKeyPath)
			fmt.Printf("Private key: %s\n", a.Config().Encryption.PrivateKeyPath)
			return nil
		})
	},
}

// console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive console session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "", func(ctx context.Context, a *app.App) error {
			p := prompter()
			prompt := ""
			if p != nil {
				prompt = "scs> "
			}
			return a.NewConsole(os.Stdout, p).Run(ctx, os.Stdin, prompt)
		})
	},
}

// exec command
var execCmd = &cobra.Command{
	Use:   "exec LINE",
	Short: "Run one console command",
	Long: `Run one console command, e.g. scs exec 'view tickets'.
Admin commands log in with $SCS_ADMIN_PASSWORD when it is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")
		return withApp(cmd, line, func(ctx context.Context, a *app.App) error {
			in := a.NewConsole(os.Stdout, prompter())
			if password := os.Getenv("SCS_ADMIN_PASSWORD"); password != "" {
				in.Login(password)
			}
			in.Execute(ctx, line)
			return nil
		})
	},
}

// commit command
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Push tickets and messages to the remote",
	Long:  "Push tickets and messages to the remote. A GitHub remote reads its token from $SCS_GITHUB_TOKEN or prompts for it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "", func(ctx context.Context, a *app.App) error {
			var token string
			if a.NeedsToken() {
				token = os.Getenv("SCS_GITHUB_TOKEN")
				if token == "" {
					var err error
					if token, err = readSecret("GitHub token: "); err != nil {
						return fmt.Errorf("reading token: %w", err)
					}
				}
			}

			written, err := a.Commit(ctx, token)
			if err != nil {
				if a.NeedsToken() {
					fmt.Printf("GitHub push failed: %v\n", err)
				} else {
					fmt.Printf("Push failed: %v\n", err)
				}
				return err
			}
			for _, f := range written {
				fmt.Printf("%s  %s  %s\n", f.Path, f.SHA, f.Revision)
			}
			fmt.Println("Attempted push (check repository).")
			return nil
		})
	},
}

// followup command
var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Record and view ticket follow-ups",
}

var followupAddCmd = &cobra.Command{
	Use:   "add TICKET_ID MESSAGE",
	Short: "Record a follow-up against a ticket",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		author, _ := cmd.Flags().GetString("author")
		message := strings.Join(args[1:], " ")
		return withApp(cmd, args[0], func(ctx context.Context, a *app.App) error {
			f, err := a.Followups().Add(ctx, scs.ParseID(args[0]), author, message)
			if err != nil {
				return err
			}
			fmt.Printf("Follow-up #%s added to ticket #%s\n", f.ID, f.TicketID)
			return nil
		})
	},
}

var followupListCmd = &cobra.Command{
	Use:   "list [TICKET_ID]",
	Short: "List follow-ups, optionally for one ticket",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, strings.Join(args, " "), func(ctx context.Context, a *app.App) error {
			list := a.Followups().All()
			if len(args) == 1 {
				list = a.Followups().ListFor(scs.ParseID(args[0]))
			}
			if len(list) == 0 {
				fmt.Println("No follow-ups.")
				return nil
			}
			for _, f := range list {
				fmt.Printf("#%s  ticket #%s  %s  %-10s  %s\n", f.ID, f.TicketID, f.Timestamp, f.Author, f.Message)
			}
			return nil
		})
	},
}

// student command
var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage the student roster",
}

var studentAddCmd = &cobra.Command{
	Use:   "add NAME EMAIL",
	Short: "Add a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, args[0], func(ctx context.Context, a *app.App) error {
			s, err := a.Roster().Add(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Student #%s added\n", s.ID)
			return nil
		})
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "", func(ctx context.Context, a *app.App) error {
			list := a.Roster().List()
			if len(list) == 0 {
				fmt.Println("No students.")
				return nil
			}
			for _, s := range list {
				fmt.Printf("#%s  %-20s  %-30s  %s\n", s.ID, s.Name, s.Email, s.CreatedAt)
			}
			return nil
		})
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the data files read-only over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		root, _ := cmd.Flags().GetString("root")
		return withApp(cmd, addr, func(ctx context.Context, a *app.App) error {
			if root == "" {
				root = a.Config().BaseDir
			}
			fmt.Printf("Serving %s on %s\n", root, addr)
			return a.Server(root).ListenAndServe(ctx, addr)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log everything to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// followup subcommands
	followupCmd.AddCommand(followupAddCmd)
	followupCmd.AddCommand(followupListCmd)
	followupAddCmd.Flags().StringP("author", "a", "", "Author of the follow-up (default \"admin\")")

	// student subcommands
	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentListCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("root", "", "Directory holding data/ and DATA/ (default: base_dir)")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(followupCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(serveCmd)
}
