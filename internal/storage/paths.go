// Package storage persists games and position snapshots in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/apex/log"
)

const appName = "chrs"

// DataDirEnv overrides the data directory when set to an absolute path.
const DataDirEnv = "CHRS_DATA_DIR"

// GetDataDir returns the directory chrs keeps its files in, creating it if
// needed. Resolution order:
//
//  1. $CHRS_DATA_DIR, used as is.
//  2. macOS: ~/Library/Application Support/chrs
//     Windows: %APPDATA%\chrs, falling back to the roaming profile
//     elsewhere: $XDG_DATA_HOME/chrs, or ~/.local/share/chrs when
//     XDG_DATA_HOME is unset or relative (relative values are invalid
//     under the XDG base directory rules and are ignored).
func GetDataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if !filepath.IsAbs(dir) {
		base, err := platformDataHome()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func platformDataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(xdg) {
			return xdg, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// GetDatabaseDir returns the badger directory inside the data directory.
// It is private to the user since saved games are the only content.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0o700); err != nil {
		return "", err
	}

	log.WithField("dir", dbDir).Debug("database directory")
	return dbDir, nil
}
