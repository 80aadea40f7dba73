package extraction

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestExtractArchive(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"garden/fern.jpg":    "fern",
		"garden/rose.png":    "rose",
		"notes.txt":          "hello",
		"nested/deep/a.webp": "a",
	})

	files, dir, err := ExtractArchive(context.Background(), archive)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	assert.Equal(t, []string{"garden/fern.jpg", "garden/rose.png", "nested/deep/a.webp", "notes.txt"}, rel)

	data, err := os.ReadFile(filepath.Join(dir, "garden", "fern.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "fern", string(data))
}

func TestExtractArchiveMissing(t *testing.T) {
	_, _, err := ExtractArchive(context.Background(), filepath.Join(t.TempDir(), "absent.zip"))
	assert.Error(t, err)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectContentType("IMG_0001.JPG"))
	assert.Equal(t, "image/jpeg", DetectContentType("leaf.jpeg"))
	assert.Equal(t, "image/png", DetectContentType("a/b/c.png"))
	assert.Equal(t, "image/webp", DetectContentType("x.webp"))
	assert.Empty(t, DetectContentType("clip.gif"))
	assert.Empty(t, DetectContentType("README"))
}

func TestShouldIgnoreFile(t *testing.T) {
	assert.True(t, ShouldIgnoreFile("._fern.jpg"))
	assert.True(t, ShouldIgnoreFile("garden/.DS_Store"))
	assert.True(t, ShouldIgnoreFile("Thumbs.db"))
	assert.True(t, ShouldIgnoreFile("__MACOSX/garden/fern.jpg"))
	assert.False(t, ShouldIgnoreFile("garden/fern.jpg"))
}
