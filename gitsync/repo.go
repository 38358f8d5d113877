// Package gitsync wraps the git working copy that backs the documents
// directory and reports synchronization attempts as domain.SyncResult.
package gitsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepository is returned by Open when the path is not inside a git
// working copy.
var ErrNotRepository = errors.New("not a git repository")

const (
	initialCommitMessage = "Initial commit - Gestor 360 setup"
	defaultRemote        = "origin"

	fallbackUserName  = "Gestor 360"
	fallbackUserEmail = "gestor360@localhost"
)

const gitignore = `# Gestor 360 - Archivos temporales
.DS_Store
Thumbs.db
*.tmp
*.temp
.vscode/
.idea/

# Logs
*.log
`

// Repo is a git working copy rooted at a documents directory.
type Repo struct {
	root string
}

// Open returns the repository containing path.
func Open(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = absPath
	output, err := cmd.Output()
	if err != nil {
		return nil, ErrNotRepository
	}

	return &Repo{root: canonical(strings.TrimSpace(string(output)))}, nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Clean(path)
}

// Init turns path into a repository with a .gitignore and an initial
// commit. A repository already rooted at path is opened unchanged; one
// merely enclosing path is not reused.
func Init(ctx context.Context, path string) (*Repo, error) {
	if r, err := Open(path); err == nil && r.root == canonical(path) {
		return r, nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	cmd := exec.CommandContext(ctx, "git", "init")
	cmd.Dir = path
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git init failed: %w\n%s", err, output)
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := r.ensureIdentity(ctx); err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(r.root, ".gitignore"), []byte(gitignore), 0644); err != nil {
		return nil, fmt.Errorf("failed to write .gitignore: %w", err)
	}
	if err := r.CommitFile(ctx, ".gitignore", initialCommitMessage); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repo) Root() string {
	return r.root
}

// Exec runs a git command in the repository root.
func (r *Repo) Exec(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\n%s",
			strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// HasRemote reports whether any remote is configured.
func (r *Repo) HasRemote(ctx context.Context) (bool, error) {
	output, err := r.Exec(ctx, "remote")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(output)) > 0, nil
}

// AddRemote registers url as origin, replacing an existing origin URL.
func (r *Repo) AddRemote(ctx context.Context, url string) error {
	if _, err := r.Exec(ctx, "remote", "get-url", defaultRemote); err == nil {
		_, err = r.Exec(ctx, "remote", "set-url", defaultRemote, url)
		return err
	}
	_, err := r.Exec(ctx, "remote", "add", defaultRemote, url)
	return err
}

// CommitFile stages one path relative to the root and commits it. Nothing
// is committed when the path has no changes.
func (r *Repo) CommitFile(ctx context.Context, relPath, message string) error {
	if _, err := r.Exec(ctx, "add", "-A", "--", relPath); err != nil {
		return err
	}

	output, err := r.Exec(ctx, "status", "--porcelain", "--", relPath)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(output)) == 0 {
		return nil
	}

	_, err = r.Exec(ctx, "commit", "-m", message, "--", relPath)
	return err
}

func (r *Repo) Pull(ctx context.Context) error {
	_, err := r.Exec(ctx, "pull")
	return err
}

func (r *Repo) Push(ctx context.Context) error {
	_, err := r.Exec(ctx, "push")
	return err
}

// ensureIdentity sets a repository-local author when git has none, so
// automatic commits work on fresh machines.
func (r *Repo) ensureIdentity(ctx context.Context) error {
	if _, err := r.Exec(ctx, "config", "user.email"); err == nil {
		return nil
	}
	if _, err := r.Exec(ctx, "config", "user.name", fallbackUserName); err != nil {
		return err
	}
	_, err := r.Exec(ctx, "config", "user.email", fallbackUserEmail)
	return err
}
