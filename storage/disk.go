// Package storage holds the attachment store backing /api/upload.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DiskStore writes uploaded attachments to a local directory served as
// static files. It stands in for the object-storage collaborator; the
// rest of the system only ever sees the returned URL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload directory: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

func (d *DiskStore) Dir() string { return d.dir }

// Save persists the attachment under a collision-free name and returns
// its public URL together with the sniffed MIME type.
func (d *DiskStore) Save(filename string, r io.Reader) (string, *mimetype.MIME, error) {
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), sanitizedExt(filename))
	path := filepath.Join(d.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", nil, err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "", nil, err
	}
	return d.baseURL + "/" + name, detected, nil
}

// sanitizedExt keeps only the extension of the client-provided name; the
// rest is untrusted input and never reaches the filesystem.
func sanitizedExt(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) > 10 {
		return ""
	}
	return ext
}
