package shared

import (
	"path/filepath"

	"github.com/ariel-frischer/changelog/internal/git"
)

// ProjectDir returns the directory project configuration is read from: the
// root of the git repository containing workDir, or workDir itself outside one.
func ProjectDir(workDir string) string {
	if root, err := git.RepositoryRoot(workDir); err == nil {
		return root
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return workDir
	}
	return abs
}
