package git

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullReport = `On branch main
Changes to be committed:
  (use "git restore --staged <file>..." to unstage)
	modified:   a.txt

Changes not staged for commit:
  (use "git add <file>..." to update what will be committed)
  (use "git restore <file>..." to discard changes in working directory)
	modified:   b.txt

Untracked files:
  (use "git add <file>..." to include in what will be committed)
	c.txt

`

func TestParseStatusScenario(t *testing.T) {
	s := ParseStatus(fullReport)

	assert.Equal(t, "main", s.Branch)
	require.Len(t, s.Files, 3)
	assert.Equal(t, FileStatus{Path: "a.txt", Category: CategoryStaged, ChangeType: "modified"}, s.Files["a.txt"])
	assert.Equal(t, FileStatus{Path: "b.txt", Category: CategoryModified, ChangeType: "modified"}, s.Files["b.txt"])
	assert.Equal(t, FileStatus{Path: "c.txt", Category: CategoryUntracked}, s.Files["c.txt"])
	assert.Empty(t, s.Files["c.txt"].ChangeType)
}

func TestParseStatusEmpty(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		branch string
	}{
		{"empty input", "", ""},
		{"branch only", "On branch dev\n", "dev"},
		{"clean tree", "On branch main\nYour branch is up to date with 'origin/main'.\n\nnothing to commit, working tree clean\n", "main"},
		{"garbage", "fatal: not a git repository\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseStatus(tt.input)
			assert.Equal(t, tt.branch, s.Branch)
			assert.Empty(t, s.Files)
		})
	}
}

func TestParseStatusCounts(t *testing.T) {
	var b strings.Builder
	b.WriteString("On branch main\n")
	b.WriteString("Changes to be committed:\n  (use \"git restore --staged <file>...\" to unstage)\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "\tnew file:   staged%d.txt\n", i)
	}
	b.WriteString("\nChanges not staged for commit:\n  (use \"git add <file>...\" to update what will be committed)\n  (use \"git restore <file>...\" to discard changes in working directory)\n")
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "\tdeleted:    modified%d.txt\n", i)
	}
	b.WriteString("\nUntracked files:\n  (use \"git add <file>...\" to include in what will be committed)\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "\tuntracked%d.txt\n", i)
	}
	b.WriteString("\n")

	s := ParseStatus(b.String())
	require.Len(t, s.Files, 12)

	staged, modified, untracked := s.Counts()
	assert.Equal(t, 3, staged)
	assert.Equal(t, 4, modified)
	assert.Equal(t, 5, untracked)
	assert.Equal(t, "new file", s.Files["staged0.txt"].ChangeType)
	assert.Equal(t, "deleted", s.Files["modified3.txt"].ChangeType)
}

func TestParseStatusLastSectionWins(t *testing.T) {
	report := `On branch main
Changes to be committed:
  (use "git restore --staged <file>..." to unstage)
	new file:   a.txt

Changes not staged for commit:
  (use "git add <file>..." to update what will be committed)
  (use "git restore <file>..." to discard changes in working directory)
	modified:   a.txt

`
	s := ParseStatus(report)
	require.Len(t, s.Files, 1)
	assert.Equal(t, CategoryModified, s.Files["a.txt"].Category)
	assert.Equal(t, "modified", s.Files["a.txt"].ChangeType)

	// Reverse order: the staged section comes last and wins.
	reversed := `Changes not staged for commit:
  (use "git add <file>..." to update what will be committed)
  (use "git restore <file>..." to discard changes in working directory)
	modified:   a.txt

Changes to be committed:
  (use "git restore --staged <file>..." to unstage)
	new file:   a.txt
`
	s = ParseStatus(reversed)
	assert.Equal(t, CategoryStaged, s.Files["a.txt"].Category)
	assert.Equal(t, "new file", s.Files["a.txt"].ChangeType)
}

func TestParseStatusWithoutHints(t *testing.T) {
	report := "On branch main\nChanges to be committed:\n\tnew file:   a.txt\n\nUntracked files:\n\tb.txt\n"
	s := ParseStatus(report)

	require.Len(t, s.Files, 2)
	assert.Equal(t, CategoryStaged, s.Files["a.txt"].Category)
	assert.Equal(t, CategoryUntracked, s.Files["b.txt"].Category)
}

func TestParseStatusDetails(t *testing.T) {
	t.Run("detached head", func(t *testing.T) {
		s := ParseStatus("HEAD detached at 1a2b3c4\nnothing to commit, working tree clean\n")
		assert.Equal(t, "(1a2b3c4)", s.Branch)
	})

	t.Run("renamed keys the new path", func(t *testing.T) {
		s := ParseStatus("Changes to be committed:\n  (use \"git restore --staged <file>...\" to unstage)\n\trenamed:    old.txt -> new.txt\n")
		require.Contains(t, s.Files, "new.txt")
		assert.Equal(t, "renamed", s.Files["new.txt"].ChangeType)
		assert.NotContains(t, s.Files, "old.txt")
	})

	t.Run("colon inside path", func(t *testing.T) {
		s := ParseStatus("Changes not staged for commit:\n  (use \"git add <file>...\" to update what will be committed)\n  (use \"git restore <file>...\" to discard changes in working directory)\n\tmodified:   notes:2024.txt\n")
		require.Contains(t, s.Files, "notes:2024.txt")
		assert.Equal(t, "modified", s.Files["notes:2024.txt"].ChangeType)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		s := ParseStatus("On branch main\r\nUntracked files:\r\n  (use \"git add <file>...\" to include in what will be committed)\r\n\tc.txt\r\n\r\n")
		assert.Equal(t, "main", s.Branch)
		assert.Contains(t, s.Files, "c.txt")
	})

	t.Run("unmerged section ignored", func(t *testing.T) {
		s := ParseStatus("On branch main\nUnmerged paths:\n  (use \"git add <file>...\" to mark resolution)\n\tboth modified:   x.txt\n\n")
		assert.Empty(t, s.Files)
	})

	t.Run("untracked directory", func(t *testing.T) {
		s := ParseStatus("Untracked files:\n  (use \"git add <file>...\" to include in what will be committed)\n\tdocs/\n")
		assert.Equal(t, CategoryUntracked, s.Files["docs/"].Category)
	})
}

func TestParseStatusHeaderLookalikes(t *testing.T) {
	t.Run("paths named like headers", func(t *testing.T) {
		report := "On branch main\n" +
			"Untracked files:\n" +
			"  (use \"git add <file>...\" to include in what will be committed)\n" +
			"\tOn branch x\n" +
			"\tUntracked files:notes\n" +
			"\tChanges to be committed:\n" +
			"\n"
		s := ParseStatus(report)

		assert.Equal(t, "main", s.Branch)
		require.Len(t, s.Files, 3)
		for _, name := range []string{"On branch x", "Untracked files:notes", "Changes to be committed:"} {
			assert.Equal(t, CategoryUntracked, s.Files[name].Category, name)
		}
	})

	t.Run("parenthesized first path is not a hint", func(t *testing.T) {
		s := ParseStatus("On branch main\nUntracked files:\n\t(foo)\n\tbar\n\n")
		require.Len(t, s.Files, 2)
		assert.Contains(t, s.Files, "(foo)")
		assert.Contains(t, s.Files, "bar")
	})

	t.Run("submodule hint is skipped", func(t *testing.T) {
		report := "Changes not staged for commit:\n" +
			"  (use \"git add <file>...\" to update what will be committed)\n" +
			"  (use \"git restore <file>...\" to discard changes in working directory)\n" +
			"  (commit or discard the untracked or modified content in submodules)\n" +
			"\tmodified:   vendor/lib (modified content)\n" +
			"\n"
		s := ParseStatus(report)
		require.Len(t, s.Files, 1)
		assert.Equal(t, CategoryModified, s.Files["vendor/lib (modified content)"].Category)
	})
}

func TestParseStatusReplacesWholesale(t *testing.T) {
	first := ParseStatus(fullReport)
	second := ParseStatus("On branch main\nnothing to commit, working tree clean\n")

	assert.Len(t, first.Files, 3)
	assert.Empty(t, second.Files)
}
