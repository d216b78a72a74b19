// Package session owns the browsing state of a running prettygit instance:
// the current directory, its git status, the annotated listing and the
// navigation history.
//
// Mutating calls are serialized by a mutex. Every change builds a complete
// Snapshot first and publishes it atomically, so readers never observe a
// half-updated state and a failed call leaves the session untouched.
package session

import (
	"context"
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avitaltamir/prettygit/internal/filetree"
	"github.com/avitaltamir/prettygit/internal/git"
	"github.com/avitaltamir/prettygit/internal/history"
	"github.com/avitaltamir/prettygit/internal/logging"
)

var (
	// ErrInvalidName is returned for entry names that would escape the
	// current directory.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrNotRepository is returned by repository-only operations outside a repository.
	ErrNotRepository = errors.New("current directory is not inside a git repository")

	ErrEmptyMessage = errors.New("commit message must not be empty")
)

// Snapshot is an immutable view of the session.
type Snapshot struct {
	Path     string `json:"path"`
	Branch   string `json:"branch,omitempty"`
	IsRepo   bool   `json:"isRepo"`
	RepoRoot string `json:"repoRoot,omitempty"`
	Depth    int    `json:"depth"`
	AtRoot   bool   `json:"atRoot"`

	Listing []filetree.Entry          `json:"listing"`
	Status  map[string]git.FileStatus `json:"-"`
	History history.History           `json:"-"`

	RefreshedAt time.Time `json:"refreshedAt"`

	// stale is set inside a repository when the status fetch failed, so
	// Status and Branch are at best carried over from an earlier snapshot.
	stale bool
}

// Listener is notified after every published snapshot. It runs while the
// session lock is held and must not call back into the session.
type Listener func(*Snapshot)

// Options configures a Session.
type Options struct {
	StartPath  string
	CloneToken string
	Logger     logging.Logger
}

// Session is the façade over listing, status parsing and history.
type Session struct {
	provider   git.Provider
	log        logging.Logger
	cloneToken string

	mu        sync.Mutex // serializes mutations
	snap      atomic.Pointer[Snapshot]
	listeners []Listener
}

// New creates a session positioned at opts.StartPath with a root,
// non-repository history node. Call Refresh to populate the listing.
func New(provider git.Provider, opts Options) *Session {
	s := &Session{
		provider:   provider,
		log:        opts.Logger,
		cloneToken: opts.CloneToken,
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.log = s.log.With("component", "session")

	start := opts.StartPath
	if start == "" {
		start = string(filepath.Separator)
	}
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}

	s.snap.Store(&Snapshot{
		Path:    start,
		Listing: []filetree.Entry{},
		Status:  map[string]git.FileStatus{},
		History: history.New(start, false),
		AtRoot:  true,
	})
	return s
}

// Subscribe registers a listener for published snapshots.
func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (s *Session) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Path returns the current directory.
func (s *Session) Path() string {
	return s.snap.Load().Path
}

// Listing returns a copy of the annotated listing.
func (s *Session) Listing() []filetree.Entry {
	return slices.Clone(s.snap.Load().Listing)
}

// StatusMap returns a copy of the parsed status map.
func (s *Session) StatusMap() map[string]git.FileStatus {
	return maps.Clone(s.snap.Load().Status)
}

// CurrentBranch returns the last reported branch, if any.
func (s *Session) CurrentBranch() (string, bool) {
	b := s.snap.Load().Branch
	return b, b != ""
}

// IsRepository reports whether the current directory is inside a repository.
func (s *Session) IsRepository() bool {
	return s.snap.Load().IsRepo
}

// Trail returns the visited directories from the root to the current one.
func (s *Session) Trail() []history.Node {
	return s.snap.Load().History.Trail()
}

// Refresh rebuilds the listing and status of the current directory.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	next, err := s.build(ctx, cur, cur.Path, cur.History)
	if err != nil {
		return err
	}
	s.publish(next)
	return nil
}

// NavigateForward descends into the child directory name. On failure the
// session is left exactly as it was.
func (s *Session) NavigateForward(ctx context.Context, name string) (*Snapshot, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	target := filepath.Join(cur.Path, name)
	hint := cur.IsRepo || git.IsRepositoryRoot(target)

	next, err := s.build(ctx, cur, target, cur.History.Push(target, hint))
	if err != nil {
		return nil, err
	}
	s.publish(next)
	return next, nil
}

// NavigateBackward returns to the previous directory. It reports false
// without error when already at the root of the history.
func (s *Session) NavigateBackward(ctx context.Context) (bool, error) {
	return s.move(ctx, history.History.Pop)
}

// NavigateRedo re-enters the directory most recently left with NavigateBackward.
func (s *Session) NavigateRedo(ctx context.Context) (bool, error) {
	return s.move(ctx, history.History.Forward)
}

func (s *Session) move(ctx context.Context, step func(history.History) (history.History, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	h, ok := step(cur.History)
	if !ok {
		return false, nil
	}

	next, err := s.build(ctx, cur, h.Current().Path, h)
	if err != nil {
		return false, err
	}
	s.publish(next)
	return true, nil
}

// build computes a complete snapshot for path without publishing it.
// Listing and status are fetched concurrently. The repository flag is
// recomputed from the filesystem every time.
func (s *Session) build(ctx context.Context, prev *Snapshot, path string, h history.History) (*Snapshot, error) {
	root, inRepo := git.FindRepositoryRoot(path)

	var (
		entries []filetree.Entry
		status  *git.Status
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = filetree.List(path)
		return err
	})
	if inRepo {
		g.Go(func() error {
			status = s.fetchStatus(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := &Snapshot{
		Path:        path,
		IsRepo:      inRepo,
		RepoRoot:    root,
		Depth:       h.Depth(),
		AtRoot:      h.AtRoot(),
		Status:      map[string]git.FileStatus{},
		History:     h,
		RefreshedAt: time.Now(),
		stale:       inRepo && status == nil,
	}

	switch {
	case !inRepo:
	case status != nil:
		next.Status = status.Files
		next.Branch = status.Branch
	case prev.Path == path && prev.IsRepo:
		// Stale but available: keep the last known status of this location.
		next.Status = prev.Status
		next.Branch = prev.Branch
	case prev.RepoRoot == root:
		next.Branch = prev.Branch
	}

	next.Listing = filetree.Annotate(entries, next.Status, inRepo)
	return next, nil
}

// fetchStatus runs and parses git status. Failures are logged and yield nil.
func (s *Session) fetchStatus(ctx context.Context, dir string) *git.Status {
	raw, err := s.provider.Status(ctx, dir)
	if err != nil {
		s.log.Warn("git status failed, keeping last known status", "dir", dir, "err", err)
		return nil
	}
	return git.ParseStatus(raw)
}

func (s *Session) publish(next *Snapshot) {
	s.snap.Store(next)
	for _, l := range s.listeners {
		l(next)
	}
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return ErrInvalidName
	}
	return nil
}

// Resolve returns the absolute path of the entry name in the current directory.
func (s *Session) Resolve(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.Path(), name), nil
}
