package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
	// SecretPermissions is used for files holding credentials
	SecretPermissions = 0600
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

var (
	// ConfigDir is the global configuration directory (~/.spotui)
	ConfigDir string

	// SettingsFile is the user settings file
	SettingsFile string

	// KeybindsFile holds keybinding overrides
	KeybindsFile string

	// DatabasePath is the SQLite database file for the run history
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// TokenFile caches the catalog OAuth token
	TokenFile string

	// LogFile receives application logs
	LogFile string
)

// ProjectSettingsFile is looked up in the working directory
const ProjectSettingsFile = ".spotui.yaml"

// Initialize sets up the configuration directories and files
// It creates ~/.spotui/ if it doesn't exist
func Initialize() error {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return InitializeAt(filepath.Join(homeDir, ".spotui"))
}

// InitializeAt points every path at dir and creates it
func InitializeAt(dir string) error {
	ConfigDir = dir
	SettingsFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	DatabasePath = filepath.Join(ConfigDir, "spotui.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	TokenFile = filepath.Join(ConfigDir, "token.json")
	LogFile = filepath.Join(ConfigDir, "spotui.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		if err := os.WriteFile(SessionFile, []byte(`{}`), FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return nil
}

// ExpandPath expands a leading tilde and resolves relative paths against
// the home directory
func ExpandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("empty path")
	}

	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if p == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir, p[2:]), nil
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(homeDir, p), nil
}
