// Package storage keeps user preferences and aggregate game statistics in
// BadgerDB. Game moves are never stored.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessai"

// EnvDataDir overrides the platform data directory when set.
const EnvDataDir = "CHESSAI_HOME"

// baseDir returns the per-user application data root.
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_DATA_HOME or ~/.local/share
//   - Windows: %APPDATA%
func baseDir() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	} else if runtime.GOOS != "darwin" {
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		return filepath.Join(home, ".local", "share"), nil
	}
}

// GetDataDir returns the data directory for the application, creating it
// if needed.
func GetDataDir() (string, error) {
	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		base, err := baseDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(base, appName)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dbDir, err)
	}
	return dbDir, nil
}
