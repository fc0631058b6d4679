package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, path string)
		wantPerm os.FileMode
	}{
		"new file": {
			setup:    func(t *testing.T, path string) {},
			wantPerm: 0o644,
		},
		"keeps existing permissions": {
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
			},
			wantPerm: 0o600,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "CHANGELOG.md")
			tt.setup(t, path)

			require.NoError(t, Save(path, mustParse(t, loneRelease)))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, loneRelease, string(data))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPerm, info.Mode().Perm())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file must not be left behind")
		})
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "CHANGELOG.md")
	require.NoError(t, Save(path, New()))
	assert.True(t, Exists(path))
	assert.False(t, Exists(filepath.Join(t.TempDir(), "nope.md")))
}
