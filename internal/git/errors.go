package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGitNotFound indicates git is not installed or not in PATH
	ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

	// ErrTimeout is returned when a git command exceeds its time budget.
	ErrTimeout = errors.New("git command timed out")

	// ErrMergeRolledBack marks a failed merge that was reset to ORIG_HEAD.
	ErrMergeRolledBack = errors.New("merge failed and was rolled back")

	// ErrMergeRollbackFailed marks a failed merge whose rollback also failed.
	ErrMergeRollbackFailed = errors.New("merge failed and rollback failed")

	ErrAlreadyRepository = errors.New("directory is already inside a git repository")
	ErrInvalidRemote     = errors.New("invalid remote address: unable to extract user id")
	ErrUnknownVisibility = errors.New("repository visibility must be public or private")
)

// ExternalToolError is returned when git exits non-zero. Some commands,
// commit among them, print their failure reason on stdout, so both streams
// are kept.
type ExternalToolError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Stdout   string
}

// Diagnostic returns git's explanation of the failure: stderr when present,
// stdout otherwise.
func (e *ExternalToolError) Diagnostic() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Stdout
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if d := e.Diagnostic(); d != "" {
		msg += ": " + d
	}
	return msg
}

// MergeError reports a failed merge and the outcome of its rollback.
type MergeError struct {
	Target      string
	Err         error
	RollbackErr error
}

func (e *MergeError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("failed to merge %q, and also failed to abort it: %v (rollback: %v)", e.Target, e.Err, e.RollbackErr)
	}
	return fmt.Sprintf("failed to merge %q, but it was aborted: %v", e.Target, e.Err)
}

func (e *MergeError) Unwrap() []error {
	if e.RollbackErr != nil {
		return []error{ErrMergeRollbackFailed, e.Err, e.RollbackErr}
	}
	return []error{ErrMergeRolledBack, e.Err}
}
