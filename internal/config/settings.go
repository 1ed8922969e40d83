package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommandTemplate is the argument template of one external operation.
// Arguments may contain {url}, {save_file} and {name} placeholders.
type CommandTemplate struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Commands holds the template per operation kind
type Commands struct {
	Download  CommandTemplate `yaml:"download"`
	Sync      CommandTemplate `yaml:"sync"`
	Archive   CommandTemplate `yaml:"archive"`
	Unarchive CommandTemplate `yaml:"unarchive"`
}

// Catalog selects and configures the playlist source
type Catalog struct {
	Source       string   `yaml:"source"` // spotify or file
	File         string   `yaml:"file"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

// Manager configures the archive screen
type Manager struct {
	Ignore []string `yaml:"ignore"`
	Watch  bool     `yaml:"watch"`
}

// Logging configures the log file
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// History toggles the run history database
type History struct {
	Enabled bool `yaml:"enabled"`
}

// Settings is the complete runtime configuration
type Settings struct {
	DownloadDir    string   `yaml:"download_dir"`
	TickRate       float64  `yaml:"tick_rate"`  // ticks per second
	FrameRate      float64  `yaml:"frame_rate"` // renders per second
	ViewportHeight int      `yaml:"viewport_height"`
	MaxOutputLines int      `yaml:"max_output_lines"`
	SaveFile       string   `yaml:"save_file"`
	Commands       Commands `yaml:"commands"`
	Catalog        Catalog  `yaml:"catalog"`
	Manager        Manager  `yaml:"manager"`
	Logging        Logging  `yaml:"logging"`
	History        History  `yaml:"history"`
}

// Catalog sources
const (
	SourceSpotify = "spotify"
	SourceFile    = "file"
)

// DefaultSettings returns the built-in configuration
func DefaultSettings() Settings {
	return Settings{
		TickRate:       4,
		FrameRate:      30,
		ViewportHeight: 6,
		MaxOutputLines: 500,
		SaveFile:       "save.spotdl",
		Commands: Commands{
			Download: CommandTemplate{
				Name: "spotdl",
				Args: []string{"sync", "{url}", "--save-file", "{save_file}", "--simple-tui"},
			},
			Sync: CommandTemplate{
				Name: "spotdl",
				Args: []string{"sync", "{save_file}"},
			},
			Archive: CommandTemplate{
				Name: "zip",
				Args: []string{"-r", "{name}.zip", "{name}"},
			},
			Unarchive: CommandTemplate{
				Name: "unzip",
				Args: []string{"-o", "{name}"},
			},
		},
		Catalog: Catalog{
			Source:      SourceSpotify,
			RedirectURL: "http://127.0.0.1:8888/callback",
			Scopes:      []string{"playlist-read-private", "playlist-read-collaborative"},
		},
		Manager: Manager{
			Ignore: []string{".*", "*.tmp"},
			Watch:  true,
		},
		Logging: Logging{Level: "info"},
		History: History{Enabled: true},
	}
}

// LoadSettings layers defaults, the user file, the project file and the
// environment. Missing files are skipped. An explicit path replaces the
// user file and must exist.
func LoadSettings(explicit string) (Settings, error) {
	s := DefaultSettings()

	userFile := SettingsFile
	if explicit != "" {
		userFile = explicit
		if _, err := os.Stat(explicit); err != nil {
			return Settings{}, fmt.Errorf("settings file %s: %w", explicit, err)
		}
	}

	for _, path := range []string{userFile, ProjectSettingsFile} {
		if path == "" {
			continue
		}
		if err := overlayFile(&s, path); err != nil {
			return Settings{}, err
		}
	}

	applyEnv(&s, os.Getenv)

	if s.Logging.File == "" {
		s.Logging.File = LogFile
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// overlayFile decodes path on top of s; fields absent from the file keep
// their current value
func overlayFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading settings from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("error loading settings from %s: %w", path, err)
	}
	return nil
}

func applyEnv(s *Settings, getenv func(string) string) {
	if v := getenv("SPOTUI_DOWNLOAD_DIR"); v != "" {
		s.DownloadDir = v
	}
	if v := getenv("SPOTUI_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if v := getenv("SPOTIFY_CLIENT_ID"); v != "" {
		s.Catalog.ClientID = v
	}
	if v := getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		s.Catalog.ClientSecret = v
	}
	if v := getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		s.Catalog.RedirectURL = v
	}
}

// Validate checks values the loop depends on
func (s Settings) Validate() error {
	var problems []string

	if s.TickRate <= 0 {
		problems = append(problems, "tick_rate must be positive")
	}
	if s.FrameRate <= 0 {
		problems = append(problems, "frame_rate must be positive")
	}
	if s.ViewportHeight < 1 {
		problems = append(problems, "viewport_height must be at least 1")
	}
	if s.MaxOutputLines < 1 {
		problems = append(problems, "max_output_lines must be at least 1")
	}
	switch s.Catalog.Source {
	case SourceSpotify:
	case SourceFile:
		if s.Catalog.File == "" {
			problems = append(problems, "catalog.file is required for the file source")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown catalog source %q", s.Catalog.Source))
	}
	for kind, tmpl := range map[string]CommandTemplate{
		"download":  s.Commands.Download,
		"sync":      s.Commands.Sync,
		"archive":   s.Commands.Archive,
		"unarchive": s.Commands.Unarchive,
	} {
		if tmpl.Name == "" {
			problems = append(problems, fmt.Sprintf("commands.%s.name is required", kind))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}
