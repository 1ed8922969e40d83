package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/studiowebux/spotui/internal/config"
)

// maxRecentFolders bounds the folder MRU list
const maxRecentFolders = 10

// Session is the state persisted between runs
type Session struct {
	DownloadDir   string    `json:"downloadDir,omitempty"`
	RecentFolders []string  `json:"recentFolders,omitempty"`
	LastPlaylist  string    `json:"lastPlaylist,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Manager loads and saves the session file
type Manager struct {
	path    string
	session *Session
}

// NewManager creates a manager backed by path; an empty path uses the
// configured session file
func NewManager(path string) *Manager {
	if path == "" {
		path = config.SessionFile
	}
	return &Manager{path: path, session: &Session{}}
}

// Load reads the session file. A missing file yields an empty session.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		m.session = &Session{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	m.session = &s
	return nil
}

// Save writes the session to disk
func (m *Manager) Save() error {
	m.session.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// DownloadDir returns the remembered download folder, or ""
func (m *Manager) DownloadDir() string {
	return m.session.DownloadDir
}

// SetDownloadDir records dir as the active folder, moves it to the front
// of the MRU list and saves
func (m *Manager) SetDownloadDir(dir string) error {
	m.session.DownloadDir = dir

	recent := []string{dir}
	for _, f := range m.session.RecentFolders {
		if f != dir {
			recent = append(recent, f)
		}
	}
	if len(recent) > maxRecentFolders {
		recent = recent[:maxRecentFolders]
	}
	m.session.RecentFolders = recent

	return m.Save()
}

// LastPlaylist returns the name of the last launched playlist, or ""
func (m *Manager) LastPlaylist() string {
	return m.session.LastPlaylist
}

// SetLastPlaylist remembers the most recently launched playlist
func (m *Manager) SetLastPlaylist(name string) error {
	m.session.LastPlaylist = name
	return m.Save()
}

// RecentFolders returns the folder MRU list
func (m *Manager) RecentFolders() []string {
	if m.session.RecentFolders == nil {
		return []string{}
	}
	return m.session.RecentFolders
}
