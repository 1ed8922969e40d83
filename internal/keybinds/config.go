package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/studiowebux/spotui/internal/action"
)

// Config represents the user's keybinding configuration.
// Each section maps a key or space separated chord to an action name.
type Config struct {
	Version     string            `json:"version"`
	Global      map[string]string `json:"global,omitempty"`
	Home        map[string]string `json:"home,omitempty"`
	Input       map[string]string `json:"input,omitempty"`
	Downloader  map[string]string `json:"downloader,omitempty"`
	Manager     map[string]string `json:"manager,omitempty"`
	Downloading map[string]string `json:"downloading,omitempty"`
	Waiting     map[string]string `json:"waiting,omitempty"`
	Idle        map[string]string `json:"idle,omitempty"`

	// Unbind removes default bindings, per context
	Unbind map[string][]string `json:"unbind,omitempty"`
}

// sections maps config sections to contexts
func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:          c.Global,
		Context("home"):        c.Home,
		Context("input"):       c.Input,
		Context("downloader"):  c.Downloader,
		Context("manager"):     c.Manager,
		Context("downloading"): c.Downloading,
		Context("waiting"):     c.Waiting,
		Context("idle"):        c.Idle,
	}
}

// LoadConfig loads keybinding configuration from a JSON file.
// Comments and trailing commas are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings; unknown actions are rejected.
func ApplyConfig(registry *Registry, config *Config) error {
	var errs []error

	for context, keys := range config.Unbind {
		for _, k := range keys {
			registry.Unregister(Context(context), k)
		}
	}

	for context, bindings := range config.sections() {
		for keys, name := range bindings {
			kind, err := action.ParseKind(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %q: %w", context, keys, err))
				continue
			}
			if err := ValidateKey(keys); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", context, err))
				continue
			}
			registry.Register(context, keys, kind)
		}
	}

	return errors.Join(errs...)
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}
	// If config doesn't exist, that's fine - use defaults

	return registry, nil
}

// CreateExampleConfig writes an example keybinds.json showing each section
func CreateExampleConfig(path string) error {
	config := &Config{
		Version: "1.0",
		Global: map[string]string{
			"ctrl+c": "quit",
			"ctrl+z": "suspend",
		},
		Home: map[string]string{
			"k":   "move_up",
			"j":   "move_down",
			"g g": "move_top",
			"G":   "move_bottom",
			"d":   "enter_downloader",
			"m":   "enter_manager",
			"e":   "enter_editing",
			"q":   "quit",
		},
		Downloader: map[string]string{
			"esc": "back_home",
			"g g": "move_top",
		},
		Manager: map[string]string{
			"r": "refresh",
		},
		Waiting: map[string]string{
			"enter": "back_home",
			"y":     "copy_output",
		},
	}

	return SaveConfig(config, path)
}
