// Package filetree lists directories and annotates entries with git status.
package filetree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/avitaltamir/prettygit/internal/git"
)

// Kind classifies a directory entry.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	// KindUnknown is reported when the entry could not be probed
	// (broken symlink, permission denied).
	KindUnknown Kind = "unknown"
)

// Entry represents one entry of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"type"`
	Size  int64  `json:"size,omitempty"`
	// ModTime is the modification time as unix timestamp
	ModTime int64 `json:"modTime,omitempty"`
	// IsRepositoryRoot is only meaningful for directories.
	IsRepositoryRoot bool `json:"initialized"`

	Status     git.Category `json:"status,omitempty"`
	ChangeType string       `json:"statusType,omitempty"`
}

// IsDir returns true for directory entries.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// IsHidden returns true if the entry is a hidden file/directory.
func (e Entry) IsHidden() bool {
	return len(e.Name) > 0 && e.Name[0] == '.'
}

// Extension returns the file extension (empty for directories).
func (e Entry) Extension() string {
	if e.Kind != KindFile {
		return ""
	}
	return strings.ToLower(filepath.Ext(e.Name))
}

// DirectoryAccessError is returned when a directory cannot be enumerated.
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// List returns the entries of dir in enumeration order. Every entry is
// probed concurrently; a failed probe downgrades the entry to KindUnknown
// instead of failing the listing.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryAccessError{Path: dir, Err: err}
	}

	entries := make([]Entry, len(dirEntries))
	var g errgroup.Group
	for i, de := range dirEntries {
		g.Go(func() error {
			entries[i] = probe(dir, de.Name())
			return nil
		})
	}
	_ = g.Wait() // probes never fail

	return entries, nil
}

// probe stats one entry, following symlinks.
func probe(dir, name string) Entry {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return Entry{Name: name, Kind: KindUnknown}
	}

	if info.IsDir() {
		return Entry{
			Name:             name,
			Kind:             KindDirectory,
			ModTime:          info.ModTime().Unix(),
			IsRepositoryRoot: git.IsRepositoryRoot(path),
		}
	}

	return Entry{
		Name:    name,
		Kind:    KindFile,
		Size:    info.Size(),
		ModTime: info.ModTime().Unix(),
	}
}
