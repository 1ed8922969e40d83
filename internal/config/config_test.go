package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withHome points osUserHomeDir at dir for the duration of the test
func withHome(t *testing.T, dir string) {
	t.Helper()
	orig := osUserHomeDir
	osUserHomeDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { osUserHomeDir = orig })
}

// inDir changes the working directory for the duration of the test
func inDir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SPOTUI_DOWNLOAD_DIR", "SPOTUI_LOG_LEVEL", "SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REDIRECT_URI"} {
		t.Setenv(k, "")
	}
}

func TestInitialize(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	want := filepath.Join(home, ".spotui")
	if ConfigDir != want {
		t.Errorf("ConfigDir = %q, want %q", ConfigDir, want)
	}
	if DatabasePath != filepath.Join(want, "spotui.db") {
		t.Errorf("DatabasePath = %q", DatabasePath)
	}

	data, err := os.ReadFile(SessionFile)
	if err != nil {
		t.Fatalf("session file not created: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("session file = %q, want {}", data)
	}
}

func TestExpandPath(t *testing.T) {
	withHome(t, "/home/user")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"tilde", "~", "/home/user", false},
		{"tilde prefix", "~/Music", "/home/user/Music", false},
		{"absolute", "/srv/music/", "/srv/music", false},
		{"relative resolves against home", "Music/spotify", "/home/user/Music/spotify", false},
		{"trimmed", "  ~/Music  ", "/home/user/Music", false},
		{"empty", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpandPath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	withHome(t, home)
	inDir(t, t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.ViewportHeight != 6 {
		t.Errorf("ViewportHeight = %d, want 6", s.ViewportHeight)
	}
	if s.MaxOutputLines != 500 {
		t.Errorf("MaxOutputLines = %d, want 500", s.MaxOutputLines)
	}
	if s.Commands.Download.Name != "spotdl" {
		t.Errorf("download command = %q", s.Commands.Download.Name)
	}
	if s.Logging.File != LogFile {
		t.Errorf("Logging.File = %q, want %q", s.Logging.File, LogFile)
	}
}

func TestLoadSettingsLayers(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	withHome(t, home)
	project := t.TempDir()
	inDir(t, project)
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	user := "viewport_height: 10\ntick_rate: 2\ncatalog:\n  client_id: from-user\n"
	if err := os.WriteFile(SettingsFile, []byte(user), FilePermissions); err != nil {
		t.Fatal(err)
	}
	proj := "viewport_height: 8\n"
	if err := os.WriteFile(filepath.Join(project, ProjectSettingsFile), []byte(proj), FilePermissions); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPOTUI_DOWNLOAD_DIR", "/srv/music")

	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.ViewportHeight != 8 {
		t.Errorf("ViewportHeight = %d, want project value 8", s.ViewportHeight)
	}
	if s.TickRate != 2 {
		t.Errorf("TickRate = %v, want user value 2", s.TickRate)
	}
	if s.Catalog.ClientID != "from-user" {
		t.Errorf("ClientID = %q", s.Catalog.ClientID)
	}
	if s.Catalog.Source != SourceSpotify {
		t.Errorf("Source = %q, want default kept", s.Catalog.Source)
	}
	if s.DownloadDir != "/srv/music" {
		t.Errorf("DownloadDir = %q, want env value", s.DownloadDir)
	}
}

func TestLoadSettingsExplicitMissing(t *testing.T) {
	clearEnv(t)
	withHome(t, t.TempDir())
	inDir(t, t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit settings file")
	}
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	clearEnv(t)
	withHome(t, t.TempDir())
	inDir(t, t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("viewport_height: [\n"), FilePermissions); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		substr string
	}{
		{"zero tick rate", func(s *Settings) { s.TickRate = 0 }, "tick_rate"},
		{"negative frame rate", func(s *Settings) { s.FrameRate = -1 }, "frame_rate"},
		{"zero viewport", func(s *Settings) { s.ViewportHeight = 0 }, "viewport_height"},
		{"unknown source", func(s *Settings) { s.Catalog.Source = "tidal" }, "unknown catalog source"},
		{"file source without file", func(s *Settings) { s.Catalog.Source = SourceFile }, "catalog.file"},
		{"missing command", func(s *Settings) { s.Commands.Archive.Name = "" }, "commands.archive.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}

	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
