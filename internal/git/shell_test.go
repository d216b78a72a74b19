package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBranches(t *testing.T) {
	t.Run("current flagged", func(t *testing.T) {
		list := ParseBranches("  dev\n* main\n+ wt-branch\n")
		assert.Equal(t, "main", list.Current)
		assert.Equal(t, []string{"dev", "main", "wt-branch"}, list.All)
	})

	t.Run("detached head", func(t *testing.T) {
		list := ParseBranches("* (HEAD detached at 1a2b3c4)\n  main\n")
		assert.Equal(t, "(HEAD detached at 1a2b3c4)", list.Current)
		assert.Equal(t, []string{"main"}, list.All)
	})

	t.Run("empty", func(t *testing.T) {
		list := ParseBranches("")
		assert.Empty(t, list.Current)
		assert.NotNil(t, list.All)
		assert.Empty(t, list.All)
	})
}

func TestExternalToolError(t *testing.T) {
	err := &ExternalToolError{Args: []string{"status"}, ExitCode: 128, Stderr: "fatal: not a git repository"}
	assert.Equal(t, "git status: exit status 128: fatal: not a git repository", err.Error())

	var target *ExternalToolError
	wrapped := errors.Join(errors.New("context"), err)
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, 128, target.ExitCode)
}

func TestExternalToolErrorDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		err  *ExternalToolError
		want string
	}{
		{"stderr preferred", &ExternalToolError{Stderr: "fatal: bad", Stdout: "noise"}, "fatal: bad"},
		{"stdout fallback", &ExternalToolError{Stdout: "nothing to commit, working tree clean"}, "nothing to commit, working tree clean"},
		{"silent", &ExternalToolError{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Diagnostic())
		})
	}

	err := &ExternalToolError{Args: []string{"commit", "-m", "x"}, ExitCode: 1, Stdout: "nothing to commit, working tree clean"}
	assert.Equal(t, "git commit -m x: exit status 1: nothing to commit, working tree clean", err.Error())
}

func TestMergeError(t *testing.T) {
	cause := &ExternalToolError{Args: []string{"merge", "dev"}, ExitCode: 1}

	t.Run("rolled back", func(t *testing.T) {
		err := &MergeError{Target: "dev", Err: cause}
		assert.ErrorIs(t, err, ErrMergeRolledBack)
		assert.NotErrorIs(t, err, ErrMergeRollbackFailed)
		assert.Contains(t, err.Error(), "aborted")

		var tool *ExternalToolError
		assert.ErrorAs(t, err, &tool)
	})

	t.Run("rollback failed", func(t *testing.T) {
		err := &MergeError{Target: "dev", Err: cause, RollbackErr: errors.New("reset failed")}
		assert.ErrorIs(t, err, ErrMergeRollbackFailed)
		assert.NotErrorIs(t, err, ErrMergeRolledBack)
		assert.Contains(t, err.Error(), "also failed")
	})
}

func TestNewShellProviderDefaults(t *testing.T) {
	p := NewShellProvider(Options{})
	assert.Equal(t, "git", p.binary)
	assert.Equal(t, DefaultTimeout, p.timeout)
	assert.Equal(t, DefaultCloneTimeout, p.cloneTimeout)
	assert.NotNil(t, p.log)
}

func TestCheckGitMissingBinary(t *testing.T) {
	assert.ErrorIs(t, CheckGit("definitely-not-a-git-binary"), ErrGitNotFound)
}

// requireGit skips the test when git is not installed and isolates it from
// the user's git configuration.
func requireGit(t *testing.T) *ShellProvider {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	return NewShellProvider(Options{})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestShellProviderWorkflow(t *testing.T) {
	p := requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := p.Init(ctx, dir)
	require.NoError(t, err)
	assert.True(t, IsRepositoryRoot(dir))
	assert.True(t, p.IsInsideWorkTree(ctx, dir))

	writeFile(t, filepath.Join(dir, "a.txt"), "one\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "two\n")

	raw, err := p.Status(ctx, dir)
	require.NoError(t, err)
	s := ParseStatus(raw)
	assert.Equal(t, CategoryUntracked, s.Files["a.txt"].Category)
	assert.Equal(t, CategoryUntracked, s.Files["b.txt"].Category)

	_, err = p.Add(ctx, dir, "a.txt")
	require.NoError(t, err)

	raw, err = p.Status(ctx, dir)
	require.NoError(t, err)
	s = ParseStatus(raw)
	assert.Equal(t, CategoryStaged, s.Files["a.txt"].Category)
	assert.Equal(t, "new file", s.Files["a.txt"].ChangeType)

	_, err = p.Commit(ctx, dir, "first")
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "a.txt"), "changed\n")
	raw, err = p.Status(ctx, dir)
	require.NoError(t, err)
	s = ParseStatus(raw)
	assert.NotEmpty(t, s.Branch)
	assert.Equal(t, CategoryModified, s.Files["a.txt"].Category)

	_, err = p.Restore(ctx, dir, "a.txt", false)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))

	_, err = p.Move(ctx, dir, "a.txt", "c.txt")
	require.NoError(t, err)
	raw, err = p.Status(ctx, dir)
	require.NoError(t, err)
	s = ParseStatus(raw)
	assert.Equal(t, "renamed", s.Files["c.txt"].ChangeType)

	_, err = p.Remove(ctx, dir, "c.txt", true)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "c.txt"))
	assert.NoError(t, statErr, "cached remove keeps the file on disk")
}

func TestShellProviderBranchesAndMerge(t *testing.T) {
	p := requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := p.Init(ctx, dir)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "f.txt"), "base\n")
	_, err = p.Add(ctx, dir, "f.txt")
	require.NoError(t, err)
	_, err = p.Commit(ctx, dir, "base")
	require.NoError(t, err)

	list, err := p.Branches(ctx, dir)
	require.NoError(t, err)
	mainBranch := list.Current
	require.NotEmpty(t, mainBranch)

	_, err = p.CreateBranch(ctx, dir, "feature")
	require.NoError(t, err)
	_, err = p.Checkout(ctx, dir, "feature")
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "f.txt"), "feature\n")
	_, err = p.Add(ctx, dir, "f.txt")
	require.NoError(t, err)
	_, err = p.Commit(ctx, dir, "feature change")
	require.NoError(t, err)

	_, err = p.Checkout(ctx, dir, mainBranch)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "f.txt"), "main\n")
	_, err = p.Add(ctx, dir, "f.txt")
	require.NoError(t, err)
	_, err = p.Commit(ctx, dir, "main change")
	require.NoError(t, err)

	_, err = p.Merge(ctx, dir, "feature")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMergeRolledBack)

	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "main\n", string(data), "conflicting merge is rolled back")

	_, err = p.RenameBranch(ctx, dir, "feature", "topic")
	require.NoError(t, err)
	list, err = p.Branches(ctx, dir)
	require.NoError(t, err)
	assert.Contains(t, list.All, "topic")
	assert.NotContains(t, list.All, "feature")

	_, err = p.DeleteBranch(ctx, dir, "topic")
	var tool *ExternalToolError
	require.ErrorAs(t, err, &tool, "unmerged branch cannot be deleted with -d")
	assert.NotZero(t, tool.ExitCode)
	assert.NotEmpty(t, tool.Stderr)
}

func TestShellProviderCommitNothing(t *testing.T) {
	p := requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := p.Init(ctx, dir)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "f.txt"), "x\n")
	_, err = p.Add(ctx, dir, "f.txt")
	require.NoError(t, err)
	_, err = p.Commit(ctx, dir, "first")
	require.NoError(t, err)

	_, err = p.Commit(ctx, dir, "again")
	var tool *ExternalToolError
	require.ErrorAs(t, err, &tool)
	assert.Equal(t, 1, tool.ExitCode)
	assert.Contains(t, tool.Diagnostic(), "nothing to commit")
	assert.Contains(t, err.Error(), "nothing to commit")
}

func TestShellProviderStatusOutsideRepo(t *testing.T) {
	p := requireGit(t)
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	_, err := p.Status(context.Background(), t.TempDir())
	var tool *ExternalToolError
	require.ErrorAs(t, err, &tool)
	assert.Equal(t, 128, tool.ExitCode)
}

func TestShellProviderTimeout(t *testing.T) {
	p := requireGit(t)
	p.timeout = time.Nanosecond

	_, err := p.Status(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrTimeout)
}
