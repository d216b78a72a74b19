package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/avitaltamir/prettygit/internal/git"
)

// mutate runs a git command in the current directory and then refreshes
// the session so the listing reflects whatever the command changed, even
// partially. Refresh failures are logged and never mask the command result.
// adjust, when set, patches the published snapshot after a successful
// command whose follow-up status was not reported by git. A reported branch
// always wins over what the caller asked for.
func (s *Session) mutate(ctx context.Context, op string, needRepo bool, fn func(dir string) (string, error), adjust func(*Snapshot)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	if needRepo && !cur.IsRepo {
		return "", ErrNotRepository
	}

	msg, err := fn(cur.Path)
	if errors.Is(err, git.ErrTimeout) {
		return "", err
	}

	next, rerr := s.build(ctx, cur, cur.Path, cur.History)
	if rerr != nil {
		s.log.Warn("refresh after git operation failed", "op", op, "dir", cur.Path, "err", rerr)
		if err != nil || adjust == nil {
			return msg, err
		}
		copied := *cur
		copied.stale = true
		next = &copied
	}
	if err == nil && adjust != nil && (rerr != nil || next.stale) {
		adjust(next)
	}
	s.publish(next)

	if err != nil {
		s.log.Info("git operation failed", "op", op, "dir", cur.Path, "err", err)
		return "", err
	}
	s.log.Info("git operation", "op", op, "dir", cur.Path)
	return msg, nil
}

// Init initializes a repository in the current directory, or in the child
// directory dirName when it is non-empty.
func (s *Session) Init(ctx context.Context, dirName string) (string, error) {
	if dirName != "" {
		if err := validateName(dirName); err != nil {
			return "", err
		}
	}
	return s.mutate(ctx, "init", false, func(dir string) (string, error) {
		if dirName != "" {
			dir = filepath.Join(dir, dirName)
		}
		return s.provider.Init(ctx, dir)
	}, nil)
}

// Add stages path.
func (s *Session) Add(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "add", true, func(dir string) (string, error) {
		return s.provider.Add(ctx, dir, path)
	}, nil)
}

// Commit records the staged changes.
func (s *Session) Commit(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	return s.mutate(ctx, "commit", true, func(dir string) (string, error) {
		return s.provider.Commit(ctx, dir, message)
	}, nil)
}

// Restore discards working tree changes to path, or unstages it when staged is set.
func (s *Session) Restore(ctx context.Context, path string, staged bool) (string, error) {
	if path == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "restore", true, func(dir string) (string, error) {
		return s.provider.Restore(ctx, dir, path, staged)
	}, nil)
}

// Remove untracks path, deleting it from disk unless cached is set.
func (s *Session) Remove(ctx context.Context, path string, cached bool) (string, error) {
	if path == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "rm", true, func(dir string) (string, error) {
		return s.provider.Remove(ctx, dir, path, cached)
	}, nil)
}

// Move renames a tracked path.
func (s *Session) Move(ctx context.Context, oldPath, newPath string) (string, error) {
	if oldPath == "" || newPath == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "mv", true, func(dir string) (string, error) {
		return s.provider.Move(ctx, dir, oldPath, newPath)
	}, nil)
}

// Branches lists local branches of the current repository.
func (s *Session) Branches(ctx context.Context) (*git.BranchList, error) {
	cur := s.snap.Load()
	if !cur.IsRepo {
		return nil, ErrNotRepository
	}
	return s.provider.Branches(ctx, cur.Path)
}

// CreateBranch creates name at HEAD.
func (s *Session) CreateBranch(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "branch create", true, func(dir string) (string, error) {
		return s.provider.CreateBranch(ctx, dir, name)
	}, nil)
}

// DeleteBranch deletes name.
func (s *Session) DeleteBranch(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "branch delete", true, func(dir string) (string, error) {
		return s.provider.DeleteBranch(ctx, dir, name)
	}, nil)
}

// RenameBranch renames oldName to newName. When git cannot report the
// branch afterwards, a rename of the current branch is tracked locally.
func (s *Session) RenameBranch(ctx context.Context, oldName, newName string) (string, error) {
	if oldName == "" || newName == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "branch rename", true, func(dir string) (string, error) {
		return s.provider.RenameBranch(ctx, dir, oldName, newName)
	}, func(next *Snapshot) {
		if next.Branch == oldName {
			next.Branch = newName
		}
	})
}

// Checkout switches to name. The branch shown afterwards is the one git
// reports; name is only assumed when the status fetch fails.
func (s *Session) Checkout(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "checkout", true, func(dir string) (string, error) {
		return s.provider.Checkout(ctx, dir, name)
	}, func(next *Snapshot) {
		next.Branch = name
	})
}

// Merge merges target into the current branch. A failed merge is rolled
// back by the provider and reported as *git.MergeError.
func (s *Session) Merge(ctx context.Context, target string) (string, error) {
	if target == "" {
		return "", ErrInvalidName
	}
	return s.mutate(ctx, "merge", true, func(dir string) (string, error) {
		return s.provider.Merge(ctx, dir, target)
	}, nil)
}

// Clone clones remote into the current directory. It refuses to run inside
// an existing repository.
func (s *Session) Clone(ctx context.Context, remote string, visibility git.Visibility) (string, error) {
	addr, err := git.CloneAddress(remote, visibility, s.cloneToken)
	if err != nil {
		return "", err
	}
	return s.mutate(ctx, "clone", false, func(dir string) (string, error) {
		if s.snap.Load().IsRepo || s.provider.IsInsideWorkTree(ctx, dir) {
			return "", git.ErrAlreadyRepository
		}
		return s.provider.Clone(ctx, dir, addr)
	}, nil)
}

// Diff returns the working tree diff of path.
func (s *Session) Diff(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrInvalidName
	}
	cur := s.snap.Load()
	if !cur.IsRepo {
		return "", ErrNotRepository
	}
	return s.provider.Diff(ctx, cur.Path, path)
}
