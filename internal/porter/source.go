package porter

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Source is an import file: either an upload or a path on disk.
type Source interface {
	// Name is the original file name, used for the extension check.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from the local filesystem.
type FileSource string

func (p FileSource) Name() string { return filepath.Base(string(p)) }

func (p FileSource) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

// UploadSource reads a file received in a multipart form.
type UploadSource struct {
	Header *multipart.FileHeader
}

func (u UploadSource) Name() string { return u.Header.Filename }

func (u UploadSource) Open() (io.ReadCloser, error) { return u.Header.Open() }

// ReaderSource adapts an already open reader, e.g. stdin in the CLI.
type ReaderSource struct {
	FileName string
	Reader   io.Reader
}

func (r ReaderSource) Name() string { return r.FileName }

func (r ReaderSource) Open() (io.ReadCloser, error) {
	if rc, ok := r.Reader.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r.Reader), nil
}

var importExtensions = map[string]bool{"csv": true, "txt": true}

func hasImportExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return importExtensions[ext]
}
