package git

import "strings"

const (
	headerBranch    = "On branch "
	headerDetached  = "HEAD detached at "
	headerStaged    = "Changes to be committed:"
	headerUnstaged  = "Changes not staged for commit:"
	headerUntracked = "Untracked files:"
)

type parseState int

const (
	stateNone parseState = iota
	stateStaged
	stateUnstaged
	stateUntracked
)

// ParseStatus converts the long-format `git status` report into a Status.
// It never fails: unrecognized lines are ignored and a path reported in
// more than one section keeps the last assignment.
//
// Headers are only recognized between sections, so a path that happens to
// look like a header is still read as a path.
func ParseStatus(raw string) *Status {
	status := NewStatus()

	state := stateNone
	hints := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if state == stateNone {
			switch {
			case strings.HasPrefix(trimmed, headerBranch):
				status.Branch = strings.TrimSpace(strings.TrimPrefix(trimmed, headerBranch))
			case strings.HasPrefix(trimmed, headerDetached):
				status.Branch = "(" + strings.TrimSpace(strings.TrimPrefix(trimmed, headerDetached)) + ")"
			case trimmed == headerStaged:
				state, hints = stateStaged, true
			case trimmed == headerUnstaged:
				state, hints = stateUnstaged, true
			case trimmed == headerUntracked:
				state, hints = stateUntracked, true
			}
			continue
		}

		if trimmed == "" {
			state, hints = stateNone, false
			continue
		}

		// Hints sit between a header and its first path.
		if hints && isHint(trimmed) {
			continue
		}
		hints = false

		switch state {
		case stateStaged:
			addChange(status, trimmed, CategoryStaged)
		case stateUnstaged:
			addChange(status, trimmed, CategoryModified)
		case stateUntracked:
			status.Files[trimmed] = FileStatus{Path: trimmed, Category: CategoryUntracked}
		}
	}

	return status
}

// isHint reports whether line is one of git's explanatory boilerplate lines,
// such as `(use "git add <file>..." to include in what will be committed)`.
func isHint(line string) bool {
	if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
		return false
	}
	return strings.HasPrefix(line, `(use "git `) || strings.HasPrefix(line, "(commit or discard ")
}

// addChange records a "<changeType>: <path>" line.
func addChange(status *Status, line string, category Category) {
	changeType, path, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	changeType = strings.TrimSpace(changeType)
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}

	// Handle renamed files (format: "renamed: old -> new")
	if _, newPath, found := strings.Cut(path, " -> "); found {
		path = strings.TrimSpace(newPath)
	}

	status.Files[path] = FileStatus{
		Path:       path,
		Category:   category,
		ChangeType: changeType,
	}
}
