package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avitaltamir/prettygit/internal/filetree"
	"github.com/avitaltamir/prettygit/internal/git"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Header    lipgloss.Style
	Branch    lipgloss.Style
	Dir       lipgloss.Style
	Repo      lipgloss.Style
	File      lipgloss.Style
	Hidden    lipgloss.Style
	Staged    lipgloss.Style
	Modified  lipgloss.Style
	Untracked lipgloss.Style
	Clean     lipgloss.Style
	Muted     lipgloss.Style
}

// Styles builds the styles for t.
func (t *Theme) Styles() Styles {
	c := t.Colors
	return Styles{
		Header:    lipgloss.NewStyle().Foreground(c.Primary).Bold(true),
		Branch:    lipgloss.NewStyle().Foreground(c.Repo).Bold(true),
		Dir:       lipgloss.NewStyle().Foreground(c.Directory).Bold(true),
		Repo:      lipgloss.NewStyle().Foreground(c.Repo).Bold(true),
		File:      lipgloss.NewStyle().Foreground(c.TextPrimary),
		Hidden:    lipgloss.NewStyle().Foreground(c.TextDim),
		Staged:    lipgloss.NewStyle().Foreground(c.Staged),
		Modified:  lipgloss.NewStyle().Foreground(c.Modified),
		Untracked: lipgloss.NewStyle().Foreground(c.Untracked),
		Clean:     lipgloss.NewStyle().Foreground(c.TextMuted),
		Muted:     lipgloss.NewStyle().Foreground(c.TextMuted).Italic(true),
	}
}

// StatusStyle returns the marker and style for a status category.
func (s Styles) StatusStyle(category git.Category) (string, lipgloss.Style) {
	switch category {
	case git.CategoryStaged:
		return GitStaged, s.Staged
	case git.CategoryModified:
		return GitModified, s.Modified
	case git.CategoryUntracked:
		return GitUntracked, s.Untracked
	default:
		return GitClean, s.Clean
	}
}

// RenderHeader renders the location line above a listing.
func (t *Theme) RenderHeader(path, branch string, isRepo bool) string {
	st := t.Styles()
	header := st.Header.Render(path)
	if !isRepo {
		return header
	}
	if branch == "" {
		branch = "(unknown)"
	}
	icon := IconRepo
	if t.UseNerdFonts {
		icon = GitBranchIcon
	}
	return header + "  " + st.Branch.Render(icon+" "+branch)
}

// RenderEntry renders one listing line: status marker, icon and name.
func (t *Theme) RenderEntry(e filetree.Entry) string {
	st := t.Styles()

	marker, markerStyle := st.StatusStyle(e.Status)
	var icon string
	var nameStyle lipgloss.Style
	name := e.Name

	switch e.Kind {
	case filetree.KindDirectory:
		icon = t.GetDirIcon(e.Name, e.IsRepositoryRoot)
		nameStyle = st.Dir
		if e.IsRepositoryRoot {
			nameStyle = st.Repo
		}
		name += "/"
	case filetree.KindFile:
		icon = t.GetFileIcon(e.Extension())
		nameStyle = st.File
		if e.Status != "" && e.Status != git.CategoryCommitted {
			nameStyle = markerStyle
		}
	default:
		icon = IconUnknown
		nameStyle = st.Muted
	}
	if e.IsHidden() && e.Status == "" {
		nameStyle = st.Hidden
	}

	line := markerStyle.Render(marker) + " " + icon + " " + nameStyle.Render(name)
	if e.ChangeType != "" {
		line += " " + st.Muted.Render("("+e.ChangeType+")")
	}
	return line
}

// RenderListing renders a header, the entries, and a summary line.
func (t *Theme) RenderListing(path, branch string, isRepo bool, entries []filetree.Entry) string {
	var b strings.Builder
	b.WriteString(t.RenderHeader(path, branch, isRepo))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(t.RenderEntry(e))
		b.WriteString("\n")
	}
	b.WriteString(t.Styles().Muted.Render(summary(entries, isRepo)))
	b.WriteString("\n")
	return b.String()
}

func summary(entries []filetree.Entry, isRepo bool) string {
	var dirs, files, staged, modified, untracked int
	for _, e := range entries {
		switch e.Kind {
		case filetree.KindDirectory:
			dirs++
		case filetree.KindFile:
			files++
		}
		switch e.Status {
		case git.CategoryStaged:
			staged++
		case git.CategoryModified:
			modified++
		case git.CategoryUntracked:
			untracked++
		}
	}
	s := fmt.Sprintf("%d directories, %d files", dirs, files)
	if isRepo {
		s += fmt.Sprintf(" · %d staged, %d modified, %d untracked", staged, modified, untracked)
	}
	return s
}
