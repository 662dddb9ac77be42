package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStore_Save(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads")
	req.NoError(err)

	url, detected, err := store.Save("report.txt", bytes.NewReader([]byte("hello attachment")))
	req.NoError(err)
	req.True(strings.HasPrefix(url, "/uploads/"))
	req.True(strings.HasSuffix(url, ".txt"))
	req.Equal("text/plain; charset=utf-8", detected.String())

	// The file landed under a generated name, never the client's
	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1)
	req.NotEqual("report.txt", entries[0].Name())

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	req.NoError(err)
	req.Equal("hello attachment", string(content))
}

func TestDiskStore_CollisionFreeNames(t *testing.T) {
	req := require.New(t)
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	req.NoError(err)

	first, _, err := store.Save("same.txt", bytes.NewReader([]byte("a")))
	req.NoError(err)
	second, _, err := store.Save("same.txt", bytes.NewReader([]byte("b")))
	req.NoError(err)

	req.NotEqual(first, second)
}

func TestSanitizedExt(t *testing.T) {
	req := require.New(t)

	req.Equal(".png", sanitizedExt("photo.png"))
	req.Equal(".txt", sanitizedExt("../../evil/path.txt"))
	req.Equal("", sanitizedExt("noextension"))
	req.Equal("", sanitizedExt("archive.reallylongextension"))
}
