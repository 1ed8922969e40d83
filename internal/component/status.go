package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/ui"
)

// errorSeconds is how long an error stays on the status line
const errorSeconds = 5

// helpColumn is the number of bindings per help overlay column
const helpColumn = 6

// Status draws the header, the status line, the key hints and the help
// overlay
type Status struct {
	base
	folder   string
	err      string
	errTicks int
	frame    int
	frames   []string
	showHelp bool
	help     help.Model
}

// NewStatus creates the status component
func NewStatus(folder string) *Status {
	return &Status{
		folder: folder,
		frames: spinner.Dot.Frames,
		help:   help.New(),
	}
}

// Err returns the error currently shown, if any
func (s *Status) Err() string { return s.err }

// HelpVisible reports whether the help overlay is open
func (s *Status) HelpVisible() bool { return s.showHelp }

func (s *Status) Update(a action.Action, m mode.Mode) (action.Action, bool, error) {
	switch a.Kind {
	case action.KindTick:
		if m == mode.Downloading {
			s.frame = (s.frame + 1) % len(s.frames)
		}
		if s.errTicks > 0 {
			s.errTicks--
			if s.errTicks == 0 {
				s.err = ""
			}
		}

	case action.KindError:
		s.err = a.Text
		s.errTicks = max(int(s.settings().TickRate*errorSeconds), 1)

	case action.KindHelp:
		s.showHelp = !s.showHelp

	case action.KindSelectFolder:
		s.folder = a.Path
		s.showHelp = false

	case action.KindEnterDownloader, action.KindEnterManager, action.KindEnterEditing,
		action.KindQuitEditing, action.KindBackHome, action.KindSelectPlaylist,
		action.KindSelectActivePlaylist:
		s.showHelp = false

	case action.KindResize:
		s.help.Width = a.Width
	}
	return none()
}

func (s *Status) Draw(c *ui.Canvas, m mode.Mode) error {
	title := ui.StyleTitle.Render("spotui")
	meta := fmt.Sprintf(" %s • %s", m, s.folderLabel())
	if err := c.Header(title + ui.StyleSubtle.Render(ui.Truncate(meta, c.Width()-6))); err != nil {
		return err
	}

	if err := c.Footer(s.statusLine(m, c.Width())); err != nil {
		return err
	}
	if err := c.Footer(s.help.ShortHelpView(s.bindings(m))); err != nil {
		return err
	}

	if s.showHelp {
		return c.Overlay(
			ui.StyleTitle.Render("Keys for "+m.String()),
			"",
			s.help.FullHelpView(columns(s.bindings(m), helpColumn)),
		)
	}
	return nil
}

func (s *Status) folderLabel() string {
	if s.folder == "" {
		return "no folder selected"
	}
	return s.folder
}

func (s *Status) statusLine(m mode.Mode, width int) string {
	if s.err != "" {
		return ui.StyleError.Render(ui.Truncate("Error: "+s.err, width))
	}
	switch m {
	case mode.Downloading:
		return ui.StyleAccent.Render(s.frames[s.frame] + " Running...")
	case mode.Waiting:
		return ui.StyleSuccess.Render("Finished. Press " + s.keyHint(mode.Waiting, action.KindBackHome, "enter") + " to go back.")
	case mode.Input:
		return ui.StyleSubtle.Render("Type the folder where playlists are stored")
	}
	return ""
}

// bindings turns the registry entries of mode m into help bindings
func (s *Status) bindings(m mode.Mode) []key.Binding {
	if s.keys == nil {
		return nil
	}

	byAction := make(map[action.Kind][]string)
	var order []action.Kind
	for _, b := range s.keys.ListBindings(keybinds.ContextFor(m)) {
		if _, seen := byAction[b.Action]; !seen {
			order = append(order, b.Action)
		}
		byAction[b.Action] = append(byAction[b.Action], b.Keys)
	}

	out := make([]key.Binding, 0, len(order))
	for _, k := range order {
		keys := byAction[k]
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), describe(k)),
		))
	}
	return out
}

func describe(k action.Kind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}

func columns(bs []key.Binding, size int) [][]key.Binding {
	var out [][]key.Binding
	for len(bs) > size {
		out = append(out, bs[:size])
		bs = bs[size:]
	}
	if len(bs) > 0 {
		out = append(out, bs)
	}
	return out
}
