// Package storage keeps generated export files on local disk and maps them
// to public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that would escape the storage root.
var ErrInvalidName = errors.New("storage: invalid file name")

// Disk stores files under Root. URLs are BaseURL joined with the
// slash-separated name.
type Disk struct {
	Root    string
	BaseURL string
}

// NewDisk returns a Disk rooted at root.
func NewDisk(root, baseURL string) *Disk {
	return &Disk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Put writes data to name. Parent directories are created as needed and the
// file appears atomically: readers see either the old file or the new one.
func (d *Disk) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := d.Path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, full); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	committed = true
	return nil
}

// URL returns the public address of name.
func (d *Disk) URL(name string) string {
	return d.BaseURL + "/" + strings.TrimLeft(path.Clean("/"+name), "/")
}

// Path resolves name to a file path inside Root.
func (d *Disk) Path(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" || strings.Contains(name, "\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	rel := strings.TrimPrefix(clean, "/")
	if rel != filepath.ToSlash(strings.TrimPrefix(name, "/")) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(d.Root, filepath.FromSlash(rel)), nil
}
