package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"scs-go/internal/config"
)

// Runner runs a git command in dir and returns its combined output.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecRunner runs the git binary found on PATH.
func ExecRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// GitPusher commits a data file and pushes it to the configured remote.
type GitPusher struct {
	cfg config.GitConfig
	run Runner
}

func NewGitPusher(cfg config.GitConfig, run Runner) *GitPusher {
	if run == nil {
		run = ExecRunner
	}
	return &GitPusher{cfg: cfg, run: run}
}

// NewGitPusherFromConfig returns nil when git pushing is disabled.
func NewGitPusherFromConfig(cfg config.GitConfig) *GitPusher {
	if !cfg.Enabled {
		return nil
	}
	return NewGitPusher(cfg, ExecRunner)
}

// Push stages file, commits it with message and pushes. A commit with
// nothing to commit is not an error; the push still runs.
func (g *GitPusher) Push(ctx context.Context, file, message string) error {
	steps := [][]string{
		{"config", "--local", "user.name", g.cfg.UserName},
		{"config", "--local", "user.email", g.cfg.UserEmail},
		{"add", file},
	}
	for _, args := range steps {
		if err := g.git(ctx, args...); err != nil {
			return err
		}
	}

	out, err := g.run(ctx, g.cfg.RepoDir, "commit", "-m", message)
	if err != nil && !nothingToCommit(out) {
		return fmt.Errorf("git commit: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return g.git(ctx, "push", g.cfg.Remote, g.cfg.Branch)
}

func (g *GitPusher) git(ctx context.Context, args ...string) error {
	out, err := g.run(ctx, g.cfg.RepoDir, args...)
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func nothingToCommit(out []byte) bool {
	s := string(out)
	return strings.Contains(s, "nothing to commit") || strings.Contains(s, "no changes added to commit")
}
