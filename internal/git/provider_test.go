package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	s := NewStatus()

	assert.NotNil(t, s)
	assert.NotNil(t, s.Files)
	assert.Empty(t, s.Files)
	assert.Empty(t, s.Branch)
	assert.True(t, s.IsClean())
}

func TestStatusCounts(t *testing.T) {
	s := NewStatus()
	s.Files["a.txt"] = FileStatus{Path: "a.txt", Category: CategoryStaged, ChangeType: "new file"}
	s.Files["b.txt"] = FileStatus{Path: "b.txt", Category: CategoryModified, ChangeType: "modified"}
	s.Files["c.txt"] = FileStatus{Path: "c.txt", Category: CategoryModified, ChangeType: "deleted"}
	s.Files["d.txt"] = FileStatus{Path: "d.txt", Category: CategoryUntracked}

	staged, modified, untracked := s.Counts()
	assert.Equal(t, 1, staged)
	assert.Equal(t, 2, modified)
	assert.Equal(t, 1, untracked)
	assert.False(t, s.IsClean())
}
