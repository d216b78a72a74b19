package git

import "context"

// Provider defines the git operations the session drives.
// Every call runs against an explicit working directory.
type Provider interface {
	// Status returns the raw human-readable `git status` report for dir.
	Status(ctx context.Context, dir string) (string, error)

	// Diff returns the working tree diff for a single file.
	Diff(ctx context.Context, dir, path string) (string, error)

	// IsInsideWorkTree asks git whether dir belongs to a work tree.
	IsInsideWorkTree(ctx context.Context, dir string) bool

	Init(ctx context.Context, dir string) (string, error)
	Add(ctx context.Context, dir, path string) (string, error)
	Commit(ctx context.Context, dir, message string) (string, error)
	Restore(ctx context.Context, dir, path string, staged bool) (string, error)
	Remove(ctx context.Context, dir, path string, cached bool) (string, error)
	Move(ctx context.Context, dir, oldPath, newPath string) (string, error)

	// Branches lists local branches.
	Branches(ctx context.Context, dir string) (*BranchList, error)
	CreateBranch(ctx context.Context, dir, name string) (string, error)
	DeleteBranch(ctx context.Context, dir, name string) (string, error)
	RenameBranch(ctx context.Context, dir, oldName, newName string) (string, error)
	Checkout(ctx context.Context, dir, name string) (string, error)

	// Merge merges target into the current branch. On failure it resets
	// to ORIG_HEAD and returns a *MergeError.
	Merge(ctx context.Context, dir, target string) (string, error)

	// Clone clones remote into a new directory under dir.
	Clone(ctx context.Context, dir, remote string) (string, error)
}

// Category classifies a path reported by git status.
type Category string

const (
	CategoryStaged    Category = "staged"
	CategoryModified  Category = "modified"
	CategoryUntracked Category = "untracked"
	// CategoryCommitted is never produced by the parser. It marks tracked
	// files without pending changes in an annotated listing.
	CategoryCommitted Category = "committed"
)

// FileStatus represents one path reported by git status.
type FileStatus struct {
	Path       string   `json:"path"`
	Category   Category `json:"status"`
	ChangeType string   `json:"type,omitempty"` // empty for untracked paths
}

// Status represents one parsed status report.
type Status struct {
	Branch string
	Files  map[string]FileStatus
}

// NewStatus creates a new Status with initialized maps.
func NewStatus() *Status {
	return &Status{
		Files: make(map[string]FileStatus),
	}
}

// IsClean returns true if the report lists no paths.
func (s *Status) IsClean() bool {
	return len(s.Files) == 0
}

// Counts returns the number of staged, modified and untracked paths.
func (s *Status) Counts() (staged, modified, untracked int) {
	for _, f := range s.Files {
		switch f.Category {
		case CategoryStaged:
			staged++
		case CategoryModified:
			modified++
		case CategoryUntracked:
			untracked++
		}
	}
	return staged, modified, untracked
}

// BranchList is the result of listing local branches.
type BranchList struct {
	Current string   `json:"current"`
	All     []string `json:"all"`
}
