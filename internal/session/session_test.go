package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), ".session.json"))
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.DownloadDir() != "" {
		t.Errorf("DownloadDir() = %q, want empty", m.DownloadDir())
	}
}

func TestLoadEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.RecentFolders()) != 0 {
		t.Errorf("RecentFolders() = %v, want empty", m.RecentFolders())
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	if err := os.WriteFile(path, []byte(`{"downloadDir":`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewManager(path).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSetDownloadDirRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".session.json")

	m := NewManager(path)
	if err := m.SetDownloadDir("/music/a"); err != nil {
		t.Fatalf("SetDownloadDir() error = %v", err)
	}
	if err := m.SetDownloadDir("/music/b"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDownloadDir("/music/a"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.DownloadDir(); got != "/music/a" {
		t.Errorf("DownloadDir() = %q, want /music/a", got)
	}
	recent := reloaded.RecentFolders()
	if len(recent) != 2 || recent[0] != "/music/a" || recent[1] != "/music/b" {
		t.Errorf("RecentFolders() = %v, want [/music/a /music/b]", recent)
	}
	if reloaded.session.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestRecentFoldersBounded(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), ".session.json"))
	for i := 0; i < maxRecentFolders+5; i++ {
		if err := m.SetDownloadDir(filepath.Join("/music", string(rune('a'+i)))); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(m.RecentFolders()); got != maxRecentFolders {
		t.Errorf("len(RecentFolders()) = %d, want %d", got, maxRecentFolders)
	}
}

func TestLastPlaylistPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")

	m := NewManager(path)
	if got := m.LastPlaylist(); got != "" {
		t.Errorf("LastPlaylist() = %q, want empty", got)
	}
	if err := m.SetLastPlaylist("Road Trip"); err != nil {
		t.Fatalf("SetLastPlaylist() error = %v", err)
	}

	reloaded := NewManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.LastPlaylist(); got != "Road Trip" {
		t.Errorf("LastPlaylist() = %q, want Road Trip", got)
	}
}
