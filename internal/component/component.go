// Package component holds the fixed set of screen components driven by the
// dispatch loop.
//
// Each component privately owns its state. The loop hands every component
// the same actions in registration order together with a snapshot of the
// current mode; components never change the mode themselves.
package component

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
	"github.com/studiowebux/spotui/internal/catalog"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/process"
	"github.com/studiowebux/spotui/internal/ui"
)

// Component is one independently stateful part of the screen
type Component interface {
	// RegisterActionSender gives the component a way to emit actions
	// outside of Update, e.g. from worker goroutines
	RegisterActionSender(s bus.Sender)

	RegisterConfig(cfg *config.Settings, reg *keybinds.Registry)

	// HandleKeyEvent sees every key press after the resolver. It may
	// return an action that is queued on the bus.
	HandleKeyEvent(key string, m mode.Mode) (action.Action, bool)

	// Update reacts to an action after the mode transition it caused.
	// A returned action is queued on the bus. An error is fatal.
	Update(a action.Action, m mode.Mode) (action.Action, bool, error)

	Draw(c *ui.Canvas, m mode.Mode) error
}

// RunRecorder stores the lifecycle of external runs
type RunRecorder interface {
	Start(ctx context.Context, playlist, dir, kind string) (string, error)
	Finish(ctx context.Context, runID string, exitCode, lines int) error
}

// FolderStore persists the chosen download folder and what was last
// launched from it
type FolderStore interface {
	SetDownloadDir(dir string) error
	SetLastPlaylist(name string) error
	// RecentFolders lists earlier folders, most recent first
	RecentFolders() []string
}

// Deps are the collaborators shared by the default components
type Deps struct {
	Ctx        context.Context
	Log        *logrus.Entry
	Playlists  []catalog.Item
	Folder     string
	Supervisor *process.Supervisor
	Session    FolderStore
	History    RunRecorder // optional
	// LastPlaylist is marked in the playlist list until another one runs
	LastPlaylist string
}

// Defaults builds the component set in registration order
func Defaults(d Deps) []Component {
	if d.Ctx == nil {
		d.Ctx = context.Background()
	}
	log := d.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	nav := NewNavigator(d.Playlists, d.Folder)
	nav.MarkLast(d.LastPlaylist)

	return []Component{
		nav,
		NewPathInput(d.Session, log.WithField("component", "input")),
		NewLibrary(d.Ctx, d.Playlists, d.Supervisor, d.History, d.Session, log.WithField("component", "library")),
		NewArchive(d.Ctx, d.Folder, d.Supervisor, d.History, log.WithField("component", "archive")),
		NewOutput(),
		NewStatus(d.Folder),
	}
}

// base provides no-op implementations for components that only need part
// of the contract
type base struct {
	sender bus.Sender
	cfg    *config.Settings
	keys   *keybinds.Registry
}

func (b *base) RegisterActionSender(s bus.Sender) { b.sender = s }

func (b *base) RegisterConfig(cfg *config.Settings, reg *keybinds.Registry) {
	b.cfg = cfg
	b.keys = reg
}

func (b *base) HandleKeyEvent(string, mode.Mode) (action.Action, bool) {
	return action.Action{}, false
}

func (b *base) Draw(*ui.Canvas, mode.Mode) error { return nil }

// send emits a through the registered sender; it is a no-op before
// registration
func (b *base) send(a action.Action) error {
	if b.sender == nil {
		return nil
	}
	return b.sender.Send(a)
}

// keyHint names the keys bound to kind in mode m; fallback is used before
// a registry is registered
func (b *base) keyHint(m mode.Mode, kind action.Kind, fallback string) string {
	if b.keys == nil {
		return fallback
	}
	return b.keys.GetBindingString(keybinds.ContextFor(m), kind)
}

// settings returns the registered configuration or the defaults
func (b *base) settings() *config.Settings {
	if b.cfg == nil {
		s := config.DefaultSettings()
		b.cfg = &s
	}
	return b.cfg
}

func none() (action.Action, bool, error) {
	return action.Action{}, false, nil
}

func follow(a action.Action) (action.Action, bool, error) {
	return a, true, nil
}
