// Package clipboard bridges the OS clipboard and the front-end: it lists
// image files copied in a file manager and writes decoded images back as
// clipboard images.
package clipboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"henji/internal/logger"

	"github.com/spf13/afero"
)

var (
	// ErrClipboardUnavailable is returned when the clipboard cannot be acquired or read.
	ErrClipboardUnavailable = errors.New("clipboard: unable to open clipboard")
	// ErrDecodeImage is returned when input bytes are not a supported image container.
	ErrDecodeImage = errors.New("clipboard: failed to decode image")
	// ErrClipboardWrite is returned when the OS rejects an image write.
	ErrClipboardWrite = errors.New("clipboard: failed to write image")
)

// FileEntry is an image file found on the clipboard, inlined as a data URL.
type FileEntry struct {
	Path     string `json:"path"`
	DataURL  string `json:"data"`
	MimeType string `json:"mime_type"`
}

// FileSource is the file-drop capability of a platform clipboard.
type FileSource interface {
	// Name identifies the variant in logs.
	Name() string
	// HasFiles reports whether the clipboard currently holds a file-drop payload.
	HasFiles() bool
	// Open acquires the clipboard. The returned FileDrop must be closed to
	// release it.
	Open() (FileDrop, error)
}

// FileDrop is an acquired file-drop payload.
type FileDrop interface {
	// Paths enumerates the dropped file paths in clipboard order.
	Paths() ([]string, error)
	// Close releases the clipboard.
	Close() error
}

// mimeTypes is the image allow-list, keyed by lower-case extension.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// MimeType returns the image MIME type for path and whether its extension is
// in the allow-list. Matching is case-insensitive.
func MimeType(path string) (string, bool) {
	mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return mt, ok
}

// DataURL formats content as a base64 data URL.
func DataURL(mimeType string, content []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// FileReader lists image files held on the clipboard.
type FileReader struct {
	source FileSource
	fs     afero.Fs
	log    *logger.AsyncLogger
}

// NewFileReader creates a FileReader. A nil fs reads from the OS file system.
func NewFileReader(source FileSource, fs afero.Fs, log *logger.AsyncLogger) *FileReader {
	if source == nil {
		source = NoopSource{}
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileReader{source: source, fs: fs, log: logger.Or(log)}
}

// ReadFiles returns the image files currently on the clipboard. A clipboard
// without a file-drop payload yields an empty list. Files that cannot be read
// are logged and skipped.
func (r *FileReader) ReadFiles(ctx context.Context) ([]FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := []FileEntry{}
	if !r.source.HasFiles() {
		return entries, nil
	}

	drop, err := r.source.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	defer func() {
		if cerr := drop.Close(); cerr != nil {
			r.log.Warnf("failed to release clipboard: %v", cerr)
		}
	}()

	paths, err := drop.Paths()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}

	for _, p := range paths {
		mt, ok := MimeType(p)
		if !ok {
			continue
		}
		data, err := afero.ReadFile(r.fs, p)
		if err != nil {
			r.log.Warnf("failed to read clipboard file %s: %v", p, err)
			continue
		}
		entries = append(entries, FileEntry{
			Path:     p,
			DataURL:  DataURL(mt, data),
			MimeType: mt,
		})
	}

	r.log.Debugf("clipboard file list via %s: %d of %d paths are images", r.source.Name(), len(entries), len(paths))
	return entries, nil
}
