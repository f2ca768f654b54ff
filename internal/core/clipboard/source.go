package clipboard

import (
	"fmt"
	"strings"
)

// File-list modes accepted by NewFileSource.
const (
	FileListAuto     = "auto"
	FileListDisabled = "disabled"
)

// NoopSource is the file-drop variant for platforms without native support.
// It never reports a payload, so readers return an empty list.
type NoopSource struct{}

func (NoopSource) Name() string   { return "noop" }
func (NoopSource) HasFiles() bool { return false }

func (NoopSource) Open() (FileDrop, error) {
	return noopDrop{}, nil
}

type noopDrop struct{}

func (noopDrop) Paths() ([]string, error) { return nil, nil }
func (noopDrop) Close() error             { return nil }

// NewFileSource selects the file-drop variant for mode. "auto" picks the
// native source when the running platform has one.
func NewFileSource(mode string) (FileSource, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", FileListAuto:
		if src := nativeFileSource(); src != nil {
			return src, nil
		}
		return NoopSource{}, nil
	case FileListDisabled:
		return NoopSource{}, nil
	default:
		return nil, fmt.Errorf("clipboard: unknown file list mode %q", mode)
	}
}
