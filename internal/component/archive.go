package component

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/process"
	"github.com/studiowebux/spotui/internal/ui"
)

// Entry is one item of the download folder shown by the manager
type Entry struct {
	Name  string
	IsDir bool
	Size  int64 // archives only
}

// Archive lists the download folder and zips or unzips its entries
type Archive struct {
	base
	launcher
	folder  string
	entries []Entry
	ignore  []glob.Glob
	loaded  bool
}

// NewArchive creates the manager component for folder
func NewArchive(ctx context.Context, folder string, sv *process.Supervisor, history RunRecorder, log *logrus.Entry) *Archive {
	return &Archive{
		launcher: launcher{
			ctx:        ctx,
			supervisor: sv,
			history:    history,
			log:        log,
		},
		folder: folder,
	}
}

// Entries returns the result of the last scan
func (a *Archive) Entries() []Entry {
	return append([]Entry(nil), a.entries...)
}

func (a *Archive) patterns() []glob.Glob {
	if a.loaded {
		return a.ignore
	}
	a.loaded = true
	for _, p := range a.settings().Manager.Ignore {
		g, err := glob.Compile(p)
		if err != nil {
			a.log.WithError(err).WithField("pattern", p).Warn("skipping invalid ignore pattern")
			continue
		}
		a.ignore = append(a.ignore, g)
	}
	return a.ignore
}

func (a *Archive) ignored(name string) bool {
	for _, g := range a.patterns() {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Scan reads the download folder, keeping playlist directories and zip
// archives that no ignore pattern matches
func (a *Archive) Scan() ([]Entry, error) {
	root, err := config.ExpandPath(a.folder)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if a.ignored(name) {
			continue
		}
		switch {
		case de.IsDir():
			entries = append(entries, Entry{Name: name, IsDir: true})
		case strings.EqualFold(filepath.Ext(name), ".zip"):
			e := Entry{Name: name}
			if info, err := de.Info(); err == nil {
				e.Size = info.Size()
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (a *Archive) rescan() (action.Action, bool, error) {
	entries, err := a.Scan()
	if err != nil {
		a.log.WithError(err).Warn("scan failed")
		a.entries = nil
		if sendErr := a.send(action.GetDirs(nil)); sendErr != nil {
			return action.Action{}, false, sendErr
		}
		return follow(action.Error(err.Error()))
	}

	a.entries = entries
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return follow(action.GetDirs(names))
}

func (a *Archive) Update(act action.Action, m mode.Mode) (action.Action, bool, error) {
	switch act.Kind {
	case action.KindSelectFolder:
		a.folder = act.Path

	case action.KindEnterManager, action.KindRefresh:
		if m == mode.Manager {
			return a.rescan()
		}

	case action.KindSelectActivePlaylist:
		if m == mode.Downloading {
			return a.start(act.Index)
		}
	}
	return none()
}

func (a *Archive) start(index int) (action.Action, bool, error) {
	if index < 0 || index >= len(a.entries) {
		return failRun(a.sender, "archive", fmt.Errorf("no entry at index %d", index))
	}
	entry := a.entries[index]

	root, err := config.ExpandPath(a.folder)
	if err != nil {
		return failRun(a.sender, "archive", err)
	}

	s := a.settings()
	vars := map[string]string{"name": entry.Name}
	r := run{name: entry.Name, key: filepath.Join(root, entry.Name), sender: a.sender}

	if entry.IsDir {
		r.kind = RunArchive
		r.cmd = process.Expand(s.Commands.Archive.Name, s.Commands.Archive.Args, root, vars)
		r.intro, r.outro = fmt.Sprintf("Archiving %s...", entry.Name), "Archive finished!"
	} else {
		r.kind = RunUnarchive
		r.cmd = process.Expand(s.Commands.Unarchive.Name, s.Commands.Unarchive.Args, root, vars)
		r.intro, r.outro = fmt.Sprintf("Unarchiving %s...", entry.Name), "Unarchive finished!"
	}

	if err := a.launch(r); err != nil {
		return failRun(a.sender, "failed to "+r.kind+" "+entry.Name, err)
	}
	return none()
}

func (a *Archive) Draw(c *ui.Canvas, m mode.Mode) error {
	if m != mode.Manager {
		return nil
	}

	var dirs, zips int
	var size int64
	for _, e := range a.entries {
		if e.IsDir {
			dirs++
		} else {
			zips++
			size += e.Size
		}
	}

	summary := fmt.Sprintf("%d playlists • %d archives (%s)", dirs, zips, humanize.Bytes(uint64(size)))
	return c.Body(ui.StyleSubtle.Render(ui.Truncate(summary, c.BodyCols())))
}
