package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.frag"))
	assert.Error(t, err)
}

func TestTextReadsCurrentContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.frag")
	writeFile(t, path, "void mainImage(){}")

	ed, err := Open(path)
	require.NoError(t, err)
	defer ed.Close()

	text, err := ed.Text()
	require.NoError(t, err)
	assert.Equal(t, "void mainImage(){}", text)
	assert.False(t, ed.Changed(), "no change notification before any write")
}

func TestChangedAfterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.frag")
	writeFile(t, path, "v1")

	ed, err := Open(path)
	require.NoError(t, err)
	defer ed.Close()

	writeFile(t, path, "v2")
	assert.Eventually(t, ed.Changed, 2*time.Second, 10*time.Millisecond)

	text, err := ed.Text()
	require.NoError(t, err)
	assert.Equal(t, "v2", text)
	assert.False(t, ed.Changed(), "notification is consumed by the first Changed call")
}

func TestUnrelatedFilesDoNotNotify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shader.frag")
	writeFile(t, path, "v1")

	ed, err := Open(path)
	require.NoError(t, err)
	defer ed.Close()

	writeFile(t, filepath.Join(dir, "other.txt"), "noise")
	time.Sleep(200 * time.Millisecond)
	assert.False(t, ed.Changed())
}

func TestRenameReplaceNotifies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shader.frag")
	writeFile(t, path, "v1")

	ed, err := Open(path)
	require.NoError(t, err)
	defer ed.Close()

	// Editors commonly save via write-then-rename.
	tmp := filepath.Join(dir, "shader.frag.tmp")
	writeFile(t, tmp, "v2")
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, ed.Changed, 2*time.Second, 10*time.Millisecond)
}
