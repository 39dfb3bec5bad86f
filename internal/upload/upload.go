// Package upload reads user-selected image files into data URIs for preview.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SelectedFile describes a file the user picked. It lives for one selection.
type SelectedFile struct {
	Name string // base name shown to the user
	Size int64  // bytes
	Type string // MIME type, e.g. "image/png"
	Path string // location on disk
}

// FileReadResult is the outcome of a successful read.
type FileReadResult struct {
	URL  string // data URI
	Name string // original file name
}

// ReadError reports a failed read of a named file.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading file %s", e.Name)
}

func (e *ReadError) Unwrap() error { return e.Err }

// FileReader turns a selected file into a data URI.
// Implementations can be swapped (disk, tracing decorator, test fakes).
type FileReader interface {
	Read(ctx context.Context, f SelectedFile) (FileReadResult, error)
}

// DiskReader implements FileReader against the local filesystem.
type DiskReader struct{}

// Ensure DiskReader implements FileReader.
var _ FileReader = DiskReader{}

// Read implements FileReader. The whole file is encoded; there are no partial results.
func (DiskReader) Read(ctx context.Context, f SelectedFile) (FileReadResult, error) {
	if err := ctx.Err(); err != nil {
		return FileReadResult{}, &ReadError{Name: f.Name, Err: err}
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return FileReadResult{}, &ReadError{Name: f.Name, Err: err}
	}
	return FileReadResult{URL: DataURI(f.Type, b), Name: f.Name}, nil
}

// DataURI encodes content as a base64 data URI of the given MIME type.
func DataURI(mimeType string, content []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// Stat builds a SelectedFile for path. Directories are rejected.
func Stat(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}
	mimeType, err := DetectType(path)
	if err != nil {
		return SelectedFile{}, err
	}
	return SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Type: mimeType,
		Path: path,
	}, nil
}

// DetectType returns the MIME type for path, by extension first and by
// sniffing the first 512 bytes otherwise. Parameters such as charset are dropped.
func DetectType(path string) (string, error) {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return stripParams(t), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return stripParams(http.DetectContentType(head[:n])), nil
}

func stripParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
