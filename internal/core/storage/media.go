// Package storage manages the application-local media directory that the
// front-end saves generated images into.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

const mediaSubdir = "Media"

// ResolveMediaDir returns override when set, otherwise
// <local app data>/<appName>/Media.
func ResolveMediaDir(appName, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	base, err := localDataDir(runtime.GOOS)
	if err != nil {
		return "", fmt.Errorf("failed to get local data directory: %w", err)
	}
	return filepath.Join(base, appName, mediaSubdir), nil
}

// localDataDir returns the per-user directory for application data that must
// survive cache cleanup: %LocalAppData% on Windows, Application Support on
// macOS, $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func localDataDir(goos string) (string, error) {
	switch goos {
	case "windows":
		return os.UserCacheDir()
	case "darwin", "ios":
		return os.UserConfigDir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		if !filepath.IsAbs(dir) {
			return "", fmt.Errorf("path in $XDG_DATA_HOME is relative")
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// EnsureMediaDir resolves the media directory and creates it on fs if it
// doesn't exist yet.
func EnsureMediaDir(fs afero.Fs, appName, override string) (string, error) {
	dir, err := ResolveMediaDir(appName, override)
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create media directory '%s': %w", dir, err)
	}
	return dir, nil
}
