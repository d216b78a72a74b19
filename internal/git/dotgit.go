package git

import (
	"os"
	"path/filepath"
)

// MetadataDirName is the name of the repository metadata directory.
const MetadataDirName = ".git"

var (
	requiredMetadataDirs  = []string{"hooks", "objects", "refs", "info"}
	requiredMetadataFiles = []string{"HEAD", "description", "config"}
)

// IsValidMetadataDir reports whether dir has the shape of a freshly
// initialized repository metadata directory. It checks structure only;
// corrupted contents still pass. Any filesystem error yields false.
func IsValidMetadataDir(dir string) bool {
	for _, name := range requiredMetadataDirs {
		info, err := os.Lstat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			return false
		}
	}

	for _, name := range requiredMetadataFiles {
		info, err := os.Lstat(filepath.Join(dir, name))
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
	}

	return true
}

// IsRepositoryRoot reports whether dir contains a valid metadata directory.
func IsRepositoryRoot(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, MetadataDirName))
	if err != nil || !info.IsDir() {
		return false
	}
	return IsValidMetadataDir(filepath.Join(dir, MetadataDirName))
}

// FindRepositoryRoot walks from dir towards the filesystem root and returns
// the nearest directory (dir included) that is a repository root.
func FindRepositoryRoot(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		if IsRepositoryRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
