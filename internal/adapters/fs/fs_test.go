package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/adapters/fs"
	"go.trai.ch/modcss/internal/core/domain"
)

// writeTree creates files below root. Keys are slash separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
}

func TestWalker_WalkStylesheets(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".git/config.css":           "",
		"node_modules/pkg/x.css":    "",
		"ignored/y.css":             "",
		"src/b.css":                 "",
		"src/a.CSS":                 "",
		"src/readme.md":             "",
		"src/components/button.css": "",
	})

	got := slices.Collect(fs.NewWalker().WalkStylesheets(root, []string{"ignored"}))

	assert.Equal(t, []string{
		filepath.Join(root, "src", "a.CSS"),
		filepath.Join(root, "src", "b.css"),
		filepath.Join(root, "src", "components", "button.css"),
	}, got)
}

func TestWalker_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.css": "", "b.css": "", "c.css": ""})

	var got []string
	for path := range fs.NewWalker().WalkStylesheets(root, nil) {
		got = append(got, path)
		break
	}
	assert.Len(t, got, 1)
}

func TestEntryResolver_ResolveEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.css":         "",
		"src/theme/dark.css":  "",
		"src/theme/light.css": "",
		"vendor/reset.css":    "",
	})
	r := fs.NewEntryResolver(fs.NewWalker())

	got, err := r.ResolveEntries([]string{"vendor/reset.css", "src/theme", "src/*.css", "src/theme/dark.css"}, root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "vendor", "reset.css"),
		filepath.Join(root, "src", "theme", "dark.css"),
		filepath.Join(root, "src", "theme", "light.css"),
		filepath.Join(root, "src", "app.css"),
	}, got)
}

func TestEntryResolver_Errors(t *testing.T) {
	root := t.TempDir()
	r := fs.NewEntryResolver(fs.NewWalker())

	_, err := r.ResolveEntries([]string{"missing.css"}, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry not found")

	_, err = r.ResolveEntries([]string{"["}, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to glob path")
}

func TestReader_Read(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.css": ".a { color: red }"})
	id := domain.NewFileID(filepath.Join(root, "a.css"))

	src, err := fs.NewReader().Read(id)
	require.NoError(t, err)
	assert.Equal(t, id, src.ID)
	assert.Equal(t, ".a { color: red }", src.Text)
	assert.Equal(t, xxhash.Sum64String(".a { color: red }"), src.Digest)

	_, err = fs.NewReader().Read(domain.NewFileID(filepath.Join(root, "missing.css")))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
