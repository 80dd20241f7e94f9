// Package bookstore persists the opening book graph (internal/book) to
// a BadgerDB database between sessions (spec.md §6 "Persisted state:
// only the book file is written by the engine under normal play").
package bookstore

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "othello"

// DataDir returns the platform-specific data directory for the engine:
// macOS ~/Library/Application Support/othello/, Linux
// ~/.local/share/othello/ (honoring $XDG_DATA_HOME), Windows
// %APPDATA%/othello/. Grounded on internal/storage/paths.go's
// GetDataDir, renamed for this module.
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// BookDir returns the directory BadgerDB stores the book database
// under, creating it if necessary.
func BookDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "book")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
