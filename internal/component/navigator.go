package component

import (
	"fmt"
	"slices"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/catalog"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/ui"
)

// Home menu entries; Enter activates them by index
var menu = []string{
	"Download Playlist",
	"Manage Downloads",
	"Change Folder",
	"Quit",
}

// title, blank line, position line and one summary line around the list
const listChrome = 4

// Navigator renders and moves through the menu, the playlists and the
// archive entries, depending on the mode
type Navigator struct {
	base
	cursor    ui.Cursor
	playlists []string
	dirs      []string
	folder    string
	last      int // index of the last launched playlist, -1 when unknown
	rows      int // body rows available for the list, 0 until the first resize
}

// NewNavigator creates a navigator over the given playlists
func NewNavigator(items []catalog.Item, folder string) *Navigator {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return &Navigator{
		cursor:    ui.NewCursor(6),
		playlists: names,
		folder:    folder,
		last:      -1,
	}
}

// MarkLast flags the playlist called name as the last one launched
func (n *Navigator) MarkLast(name string) {
	n.last = slices.Index(n.playlists, name)
}

// Last returns the index of the marked playlist, or -1
func (n *Navigator) Last() int { return n.last }

// Cursor returns a copy of the selection state
func (n *Navigator) Cursor() ui.Cursor { return n.cursor }

func listMode(m mode.Mode) bool {
	return m == mode.Home || m == mode.Downloader || m == mode.Manager
}

func (n *Navigator) entries(m mode.Mode) []string {
	switch m {
	case mode.Home:
		return menu
	case mode.Downloader:
		return n.playlists
	case mode.Manager:
		return n.dirs
	}
	return nil
}

// height is min(viewport_height, rows available), never below 1
func (n *Navigator) height() int {
	h := n.settings().ViewportHeight
	if n.rows > 0 {
		h = min(h, n.rows)
	}
	return max(h, 1)
}

func (n *Navigator) HandleKeyEvent(key string, m mode.Mode) (action.Action, bool) {
	if key != "enter" {
		return action.Action{}, false
	}

	switch m {
	case mode.Home:
		switch n.cursor.Index {
		case 0:
			return action.EnterDownloader(), true
		case 1:
			return action.EnterManager(), true
		case 2:
			return action.EnterEditing(), true
		case 3:
			return action.Quit(), true
		}
	case mode.Downloader:
		if len(n.playlists) > 0 {
			return action.SelectPlaylist(n.folder, n.cursor.Index), true
		}
	case mode.Manager:
		if len(n.dirs) > 0 {
			return action.SelectActivePlaylist(n.cursor.Index), true
		}
	}
	return action.Action{}, false
}

func (n *Navigator) Update(a action.Action, m mode.Mode) (action.Action, bool, error) {
	switch a.Kind {
	case action.KindMoveUp, action.KindMoveDown, action.KindMoveTop, action.KindMoveBottom:
		if !listMode(m) {
			return none()
		}
		n.move(a.Kind, len(n.entries(m)))

	case action.KindEnterDownloader:
		if m == mode.Downloader {
			n.cursor.Reset()
		}
	case action.KindEnterManager:
		if m == mode.Manager {
			n.cursor.Reset()
			n.dirs = nil
		}
	case action.KindSelectPlaylist:
		if m == mode.Downloading && a.Index >= 0 && a.Index < len(n.playlists) {
			n.last = a.Index
		}
	case action.KindGetDirs:
		n.dirs = slices.Clone(a.Names)
	case action.KindBackHome, action.KindSelectFolder, action.KindQuitEditing:
		if m == mode.Home {
			n.cursor.Reset()
		}
		if a.Is(action.KindSelectFolder) {
			n.folder = a.Path
		}

	case action.KindResize:
		n.rows = max(ui.NewCanvas(a.Width, a.Height).BodyRows()-listChrome, 1)
	}

	n.reflow(m)
	return none()
}

// reflow applies the current window height and, on list screens, restores
// the cursor invariant
func (n *Navigator) reflow(m mode.Mode) {
	if listMode(m) {
		n.cursor.SetHeight(n.height(), len(n.entries(m)))
		return
	}
	n.cursor.Height = n.height()
}

func (n *Navigator) move(k action.Kind, count int) {
	switch k {
	case action.KindMoveUp:
		n.cursor.MoveUp()
	case action.KindMoveDown:
		n.cursor.MoveDown(count)
	case action.KindMoveTop:
		n.cursor.Top()
	case action.KindMoveBottom:
		n.cursor.Bottom(count)
	}
}

func (n *Navigator) Draw(c *ui.Canvas, m mode.Mode) error {
	var title, empty string
	switch m {
	case mode.Home:
		title = "Menu"
	case mode.Downloader:
		title, empty = "Playlists", "No playlists found"
	case mode.Manager:
		title, empty = "Downloads", "Nothing downloaded yet"
	default:
		return nil
	}

	c.Title(title)
	c.Highlight()

	entries := n.entries(m)
	if len(entries) == 0 {
		return c.Body(ui.StyleSubtle.Render(empty))
	}

	width := c.BodyCols()
	start, end := n.cursor.Window(len(entries))
	for i := start; i < end; i++ {
		label := entries[i]
		if m == mode.Downloader && i == n.last {
			label += " (last)"
		}
		if err := c.Body(ui.Item(label, i == n.cursor.Index, width)); err != nil {
			return err
		}
	}
	return c.Body(ui.StyleSubtle.Render(fmt.Sprintf("[%d/%d]", n.cursor.Index+1, len(entries))))
}
