//go:build !windows

package clipboard

// File-drop reading is only implemented for CF_HDROP; other platforms fall
// back to NoopSource.
func nativeFileSource() FileSource {
	return nil
}
