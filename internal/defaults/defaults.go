// Package defaults resolves where cryptoportal keeps its local files.
//
// Platform paths:
//
//	macOS:   ~/Library/Application Support/CryptoPortal/
//	Windows: %AppData%\CryptoPortal\
//	Linux:   ~/.config/cryptoportal/
//
// Override with CRYPTOPORTAL_DATA_DIR environment variable.
package defaults

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataDirEnv overrides the platform data directory.
const DataDirEnv = "CRYPTOPORTAL_DATA_DIR"

// StorageFile holds the local key/value storage (the access token lives there).
const StorageFile = "storage.json"

// DataDir returns the platform-appropriate data directory.
func DataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}

	// Linux: lowercase per XDG convention
	if runtime.GOOS == "linux" {
		return filepath.Join(configDir, "cryptoportal"), nil
	}
	return filepath.Join(configDir, "CryptoPortal"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// StoragePath returns <data_dir>/storage.json, creating the data directory
// so the file can be written.
func StoragePath() (string, error) {
	dir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StorageFile), nil
}
