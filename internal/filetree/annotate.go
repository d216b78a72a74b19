package filetree

import "github.com/avitaltamir/prettygit/internal/git"

// Annotate copies git status onto file entries. Files missing from status
// are marked committed when inRepo is set. Directories and unknown entries
// pass through without status. The input slice is not modified.
func Annotate(entries []Entry, status map[string]git.FileStatus, inRepo bool) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Status = ""
		e.ChangeType = ""

		if e.Kind == KindFile {
			if fs, ok := status[e.Name]; ok {
				e.Status = fs.Category
				e.ChangeType = fs.ChangeType
			} else if inRepo {
				e.Status = git.CategoryCommitted
			}
		}

		out[i] = e
	}
	return out
}

// Directories returns only the directory entries, in order.
func Directories(entries []Entry) []Entry {
	var dirs []Entry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs
}

// Find returns the entry with the given name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
