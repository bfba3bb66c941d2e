package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig("test-host", t.TempDir())
	cfg.Cache = config.CacheConfig{Type: "memory"}
	cfg.Encryption.Type = "test"
	cfg.Notify.InitialInterval = config.Duration{Duration: time.Millisecond}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, command string) *App {
	t.Helper()
	a, err := NewApp(context.Background(), cfg, command, "", Options{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return a
}

func readAuditLog(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	return string(data)
}

func TestNewApp_ConsoleSession(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, "console")
	ctx := context.Background()

	var out bytes.Buffer
	in := a.NewConsole(&out, nil)
	in.Execute(ctx, `newticket "Printer broken" "It smokes" "a@b.com"`)
	if !in.Login(config.DefaultAdminPassword) {
		t.Fatal("Login() with configured password failed")
	}
	in.Execute(ctx, `reply 1 "On it"`)

	list := a.Tickets().List(ctx)
	if len(list) != 1 {
		t.Fatalf("len(tickets) = %d, want 1", len(list))
	}
	if list[0].Status != scs.StatusAnswered {
		t.Errorf("Status = %q, want %q", list[0].Status, scs.StatusAnswered)
	}
	if !strings.Contains(out.String(), "Reply added to ticket #1") {
		t.Errorf("console output = %q", out.String())
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	audit := readAuditLog(t, cfg)
	for _, want := range []string{"\tticket created\t", "\tadmin login ok", "\tcommand finished\tcommand=console\tstatus=success"} {
		if !strings.Contains(audit, want) {
			t.Errorf("audit log missing %q:\n%s", want, audit)
		}
	}
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unknown cache", mutate: func(c *config.Config) { c.Cache.Type = "bogus" }},
		{name: "unknown source", mutate: func(c *config.Config) { c.Source.Type = "ftp" }},
		{name: "unknown encryption", mutate: func(c *config.Config) { c.Encryption.Type = "rot13" }},
		{name: "email without host", mutate: func(c *config.Config) { c.Notify.Email = config.EmailConfig{Enabled: true, To: "ops@example.com"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.mutate(cfg)

			if _, err := NewApp(context.Background(), cfg, "exec", "", Options{Stderr: io.Discard}); err == nil {
				t.Fatal("NewApp() expected error")
			}
			if !strings.Contains(readAuditLog(t, cfg), "\tstartup failed\t") {
				t.Error("startup failure not written to audit log")
			}
		})
	}
}

func TestApp_PrivilegedFiles(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, "followup")
	ctx := context.Background()

	f, err := a.Followups().Add(ctx, 3, "", "Called the student")
	if err != nil {
		t.Fatalf("Followups().Add() error = %v", err)
	}
	if f.ID != 1 || f.Author != "admin" {
		t.Errorf("follow-up = %+v", f)
	}

	if _, err := a.Roster().Add(ctx, "", "x@y.com"); !errors.Is(err, scs.ErrValidation) {
		t.Errorf("Roster().Add() without name error = %v, want ErrValidation", err)
	}
	if _, err := a.Roster().Add(ctx, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("Roster().Add() error = %v", err)
	}

	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, name := range []string{FollowUpsFile, StudentsFile} {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	reopened := newTestApp(t, cfg, "followup")
	defer reopened.Close(ctx)
	if got := reopened.Followups().ListFor(3); len(got) != 1 {
		t.Errorf("ListFor(3) after reopen = %d records, want 1", len(got))
	}
}

func TestApp_SetupKeys(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, "keys")
	defer a.Close(context.Background())

	if err := a.SetupKeys("passphrase"); err != nil {
		t.Fatalf("SetupKeys() error = %v", err)
	}
	if !a.Encryptor().IsConfigured() {
		t.Error("IsConfigured() = false after SetupKeys")
	}
}

type fakeGitHub struct {
	mu   sync.Mutex
	auth []string
	puts map[string]string
}

func (g *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.auth = append(g.auth, r.Header.Get("Authorization"))

	path := strings.TrimPrefix(r.URL.Path, "/repos/owner/repo/contents/")
	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		var body struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		decoded, _ := base64.StdEncoding.DecodeString(body.Content)
		g.puts[path] = string(decoded)
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"content":{"path":%q,"sha":"blob-%d"},"commit":{"sha":"c0ffee"}}`, path, len(g.puts))
	}
}

func TestApp_Commit(t *testing.T) {
	gh := &fakeGitHub{puts: map[string]string{}}
	ts := httptest.NewServer(gh)
	defer ts.Close()

	cfg := newTestConfig(t)
	cfg.Remote = config.RemoteConfig{Type: "github", Owner: "owner", Repo: "repo", Branch: "main", BaseURL: ts.URL}
	a := newTestApp(t, cfg, "commit")
	defer a.Close(context.Background())
	ctx := context.Background()

	if !a.NeedsToken() {
		t.Error("NeedsToken() = false for github remote")
	}
	if _, err := a.Board().Post(ctx, scs.Message{Text: "Maintenance at 5pm"}); err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	written, err := a.Commit(ctx, "tok")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Commit() wrote %d files, want 2", len(written))
	}
	if written[1].Path != "data/messages.json" || written[1].SHA != "blob-2" || written[1].Revision != "c0ffee" {
		t.Errorf("Commit() metadata = %+v", written[1])
	}

	if got := gh.puts["data/tickets.json"]; got != "[]" {
		t.Errorf("tickets pushed = %q, want []", got)
	}
	if !strings.Contains(gh.puts["data/messages.json"], `"text": "Maintenance at 5pm"`) {
		t.Errorf("messages pushed = %q", gh.puts["data/messages.json"])
	}
	for _, h := range gh.auth {
		if h != "Bearer tok" {
			t.Errorf("Authorization = %q, want %q", h, "Bearer tok")
		}
	}

	if _, err := a.Commit(ctx, ""); err == nil {
		t.Error("Commit() without token expected error")
	}
}

func TestApp_Fail(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, "commit")

	a.Fail(errors.New("GitHub API error: 401 bad credentials"))
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	audit := readAuditLog(t, cfg)
	if !strings.Contains(audit, "\tcommand failed\tcommand=commit\terror=GitHub API error: 401 bad credentials") {
		t.Errorf("audit log missing failure line:\n%s", audit)
	}
	if !strings.Contains(audit, "status=error") {
		t.Errorf("audit log missing status=error:\n%s", audit)
	}
}
