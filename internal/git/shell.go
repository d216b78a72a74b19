package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/avitaltamir/prettygit/internal/logging"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultCloneTimeout = 5 * time.Minute
)

// Options configures a ShellProvider.
type Options struct {
	Binary       string
	Timeout      time.Duration
	CloneTimeout time.Duration
	Logger       logging.Logger
}

// ShellProvider implements Provider using shell git commands.
type ShellProvider struct {
	binary       string
	timeout      time.Duration
	cloneTimeout time.Duration
	log          logging.Logger
	mu           sync.Mutex // Prevents concurrent git operations
}

// NewShellProvider creates a new shell-based git provider.
func NewShellProvider(opts Options) *ShellProvider {
	p := &ShellProvider{
		binary:       opts.Binary,
		timeout:      opts.Timeout,
		cloneTimeout: opts.CloneTimeout,
		log:          opts.Logger,
	}
	if p.binary == "" {
		p.binary = "git"
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.cloneTimeout <= 0 {
		p.cloneTimeout = DefaultCloneTimeout
	}
	if p.log == nil {
		p.log = logging.Nop()
	}
	return p
}

// CheckGit verifies that the git binary is available in PATH
func CheckGit(binary string) error {
	if binary == "" {
		binary = "git"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// run executes git in dir and returns stdout. Non-zero exits become
// *ExternalToolError, exceeded deadlines wrap ErrTimeout.
func (p *ShellProvider) run(ctx context.Context, timeout time.Duration, dir string, args ...string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, args...) // #nosec G204 -- arguments are built by this package
	cmd.Dir = dir
	// The status parser reads the English long format.
	cmd.Env = append(os.Environ(), "LC_ALL=C", "LANGUAGE=C", "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	p.log.Debug("git", "args", redact(args), "dir", dir, "took", time.Since(start), "err", err)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s after %s: %w", args[0], timeout, ErrTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExternalToolError{
				Args:     redact(args),
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Stdout:   strings.TrimSpace(stdout.String()),
			}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrGitNotFound
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return stdout.String(), nil
}

func (p *ShellProvider) git(ctx context.Context, dir string, args ...string) (string, error) {
	return p.run(ctx, p.timeout, dir, args...)
}

// Status returns the raw `git status` report.
func (p *ShellProvider) Status(ctx context.Context, dir string) (string, error) {
	// Use --no-optional-locks to avoid taking index.lock for read-only operation
	return p.git(ctx, dir, "--no-optional-locks", "-c", "core.quotePath=false", "-c", "color.status=false", "status")
}

// Diff returns the diff for a single file in the working tree.
func (p *ShellProvider) Diff(ctx context.Context, dir, path string) (string, error) {
	return p.git(ctx, dir, "--no-optional-locks", "diff", "--no-color", "--", path)
}

// IsInsideWorkTree checks whether dir belongs to a git work tree.
func (p *ShellProvider) IsInsideWorkTree(ctx context.Context, dir string) bool {
	out, err := p.git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Init creates an empty repository in dir.
func (p *ShellProvider) Init(ctx context.Context, dir string) (string, error) {
	out, err := p.git(ctx, dir, "init")
	if err != nil {
		return "", err
	}
	return confirm(out, "initialized repository in %s", dir), nil
}

// Add adds a path to the staging area.
func (p *ShellProvider) Add(ctx context.Context, dir, path string) (string, error) {
	out, err := p.git(ctx, dir, "add", "--", path)
	if err != nil {
		return "", err
	}
	return confirm(out, "added %s", path), nil
}

// Commit creates a new commit with the given message.
func (p *ShellProvider) Commit(ctx context.Context, dir, message string) (string, error) {
	out, err := p.git(ctx, dir, "commit", "-m", message)
	if err != nil {
		return "", err
	}
	return confirm(out, "committed"), nil
}

// Restore discards working tree changes, or unstages when staged is set.
func (p *ShellProvider) Restore(ctx context.Context, dir, path string, staged bool) (string, error) {
	args := []string{"restore"}
	if staged {
		args = append(args, "--staged")
	}
	args = append(args, "--", path)

	out, err := p.git(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	if staged {
		return confirm(out, "unstaged %s", path), nil
	}
	return confirm(out, "restored %s", path), nil
}

// Remove deletes a path from the index, and from disk unless cached is set.
func (p *ShellProvider) Remove(ctx context.Context, dir, path string, cached bool) (string, error) {
	args := []string{"rm"}
	if cached {
		args = append(args, "--cached")
	}
	args = append(args, "--", path)

	out, err := p.git(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return confirm(out, "removed %s", path), nil
}

// Move renames a tracked path.
func (p *ShellProvider) Move(ctx context.Context, dir, oldPath, newPath string) (string, error) {
	out, err := p.git(ctx, dir, "mv", "--", oldPath, newPath)
	if err != nil {
		return "", err
	}
	return confirm(out, "renamed %s to %s", oldPath, newPath), nil
}

// Branches lists local branches.
func (p *ShellProvider) Branches(ctx context.Context, dir string) (*BranchList, error) {
	out, err := p.git(ctx, dir, "branch", "--list", "--no-color")
	if err != nil {
		return nil, err
	}
	return ParseBranches(out), nil
}

// CreateBranch creates a branch at HEAD.
func (p *ShellProvider) CreateBranch(ctx context.Context, dir, name string) (string, error) {
	out, err := p.git(ctx, dir, "branch", "--", name)
	if err != nil {
		return "", err
	}
	return confirm(out, "created branch '%s'", name), nil
}

// DeleteBranch deletes a fully merged branch.
func (p *ShellProvider) DeleteBranch(ctx context.Context, dir, name string) (string, error) {
	out, err := p.git(ctx, dir, "branch", "-d", "--", name)
	if err != nil {
		return "", err
	}
	return confirm(out, "deleted branch '%s'", name), nil
}

// RenameBranch renames oldName to newName.
func (p *ShellProvider) RenameBranch(ctx context.Context, dir, oldName, newName string) (string, error) {
	out, err := p.git(ctx, dir, "branch", "-m", "--", oldName, newName)
	if err != nil {
		return "", err
	}
	return confirm(out, "renamed branch '%s' to '%s'", oldName, newName), nil
}

// Checkout switches to an existing branch.
func (p *ShellProvider) Checkout(ctx context.Context, dir, name string) (string, error) {
	out, err := p.git(ctx, dir, "checkout", name, "--")
	if err != nil {
		return "", err
	}
	return confirm(out, "switched to branch '%s'", name), nil
}

// Merge merges target into the current branch, rolling back on failure.
func (p *ShellProvider) Merge(ctx context.Context, dir, target string) (string, error) {
	out, err := p.git(ctx, dir, "merge", "--no-edit", target)
	if err == nil {
		return confirm(out, "merged '%s'", target), nil
	}

	p.log.Warn("merge failed, resetting to ORIG_HEAD", "dir", dir, "target", target, "err", err)
	if _, rbErr := p.git(ctx, dir, "reset", "--hard", "ORIG_HEAD"); rbErr != nil {
		return "", &MergeError{Target: target, Err: err, RollbackErr: rbErr}
	}
	return "", &MergeError{Target: target, Err: err}
}

// Clone clones remote into a new directory under dir.
func (p *ShellProvider) Clone(ctx context.Context, dir, remote string) (string, error) {
	if _, err := p.run(ctx, p.cloneTimeout, dir, "clone", "--", remote); err != nil {
		return "", err
	}
	return fmt.Sprintf("cloned from '%s'", RedactRemote(remote)), nil
}

// ParseBranches parses `git branch --list` output.
func ParseBranches(raw string) *BranchList {
	list := &BranchList{All: []string{}}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		current := strings.HasPrefix(line, "* ")
		name := strings.TrimSpace(strings.TrimPrefix(line, "* "))
		// Worktree-checked-out branches are prefixed with "+ ".
		name = strings.TrimSpace(strings.TrimPrefix(name, "+ "))

		if strings.HasPrefix(name, "(") {
			// Detached HEAD: "(HEAD detached at abc123)"
			if current {
				list.Current = name
			}
			continue
		}
		if current {
			list.Current = name
		}
		list.All = append(list.All, name)
	}
	return list
}

func confirm(out, format string, args ...any) string {
	if s := strings.TrimSpace(out); s != "" {
		return s
	}
	return fmt.Sprintf(format, args...)
}

func redact(args []string) []string {
	res := make([]string, len(args))
	for i, a := range args {
		res[i] = RedactRemote(a)
	}
	return res
}
