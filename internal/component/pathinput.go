package component

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/ui"
)

// PathInput edits the download folder in Input mode
type PathInput struct {
	base
	input textinput.Model
	store FolderStore
	log   *logrus.Entry
}

// NewPathInput creates an empty path input; store may be nil
func NewPathInput(store FolderStore, log *logrus.Entry) *PathInput {
	ti := textinput.New()
	ti.Placeholder = "~/Music/spotify"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.ShowSuggestions = true

	return &PathInput{input: ti, store: store, log: log}
}

// Value returns the text typed so far
func (p *PathInput) Value() string { return p.input.Value() }

func (p *PathInput) HandleKeyEvent(key string, m mode.Mode) (action.Action, bool) {
	if m != mode.Input {
		return action.Action{}, false
	}

	if key == "enter" {
		value := strings.TrimSpace(p.input.Value())
		if value == "" {
			return action.Action{}, false
		}
		p.reset()
		return action.SelectFolder(value), true
	}

	msg, ok := keyMsg(key)
	if !ok {
		return action.Action{}, false
	}
	if !p.input.Focused() {
		p.input.Focus()
	}
	p.input, _ = p.input.Update(msg)
	return action.Action{}, false
}

func (p *PathInput) Update(a action.Action, m mode.Mode) (action.Action, bool, error) {
	switch a.Kind {
	case action.KindEnterEditing:
		if m == mode.Input {
			p.reset()
			if p.store != nil {
				p.input.SetSuggestions(p.store.RecentFolders())
			}
			p.input.Focus()
		}

	case action.KindQuitEditing:
		p.reset()

	case action.KindSelectFolder:
		p.reset()
		if p.store == nil {
			return none()
		}
		dir, err := config.ExpandPath(a.Path)
		if err != nil {
			return follow(action.Errorf("invalid folder: %v", err))
		}
		if err := p.store.SetDownloadDir(dir); err != nil {
			p.log.WithError(err).Warn("failed to save session")
			return follow(action.Errorf("failed to save folder: %v", err))
		}
		p.log.WithField("dir", dir).Info("download folder changed")

	case action.KindResize:
		p.input.Width = max(a.Width-12, 10)
	}
	return none()
}

func (p *PathInput) Draw(c *ui.Canvas, m mode.Mode) error {
	if m != mode.Input {
		return nil
	}
	return c.Overlay(
		ui.StyleTitle.Render("Choose your folder"),
		"",
		p.input.View(),
		"",
		ui.StyleSubtle.Render("enter confirm • tab complete • "+p.keyHint(mode.Input, action.KindQuitEditing, "esc")+" cancel"),
	)
}

func (p *PathInput) reset() {
	p.input.Reset()
	p.input.Blur()
}

// keyMsg turns a key name back into the message the text input expects
func keyMsg(key string) (tea.KeyMsg, bool) {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}, true
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}, true
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}, true
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}, true
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}, true
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}, true
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}, true
	case "home", "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyHome}, true
	case "end", "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyEnd}, true
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}, true
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}, true
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}, true
	}

	if utf8.RuneCountInString(key) > 1 && isKeyName(key) {
		return tea.KeyMsg{}, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}, true
}

var keyNames = map[string]bool{
	"shift+tab": true, "esc": true,
	"pgup": true, "pgdown": true, "insert": true,
}

// isKeyName tells named keys such as "tab", "f5" or "alt+x" from pasted
// text
func isKeyName(key string) bool {
	if keyNames[key] || strings.Contains(key, "+") {
		return true
	}
	if key[0] == 'f' {
		_, err := strconv.Atoi(key[1:])
		return err == nil
	}
	return false
}
