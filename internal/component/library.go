package component

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/catalog"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/process"
)

// Library downloads a new playlist or syncs one already on disk
type Library struct {
	base
	launcher
	playlists []catalog.Item
	store     FolderStore
}

// NewLibrary creates the playlist download component; history and store
// may be nil
func NewLibrary(ctx context.Context, playlists []catalog.Item, sv *process.Supervisor, history RunRecorder, store FolderStore, log *logrus.Entry) *Library {
	return &Library{
		launcher: launcher{
			ctx:        ctx,
			supervisor: sv,
			history:    history,
			log:        log,
		},
		playlists: playlists,
		store:     store,
	}
}

// TargetDir is where a playlist is stored: the folder joined with the
// playlist name stripped of spaces
func TargetDir(folder, playlist string) string {
	return filepath.Join(folder, strings.ReplaceAll(playlist, " ", ""))
}

func (l *Library) Update(a action.Action, m mode.Mode) (action.Action, bool, error) {
	if !a.Is(action.KindSelectPlaylist) || m != mode.Downloading {
		return none()
	}

	if a.Index < 0 || a.Index >= len(l.playlists) {
		return failRun(l.sender, "download", fmt.Errorf("no playlist at index %d", a.Index))
	}
	item := l.playlists[a.Index]

	folder, err := config.ExpandPath(a.Path)
	if err != nil {
		return failRun(l.sender, "download", err)
	}
	target := TargetDir(folder, item.Name)
	s := l.settings()

	vars := map[string]string{
		"url":       item.URL,
		"save_file": s.SaveFile,
		"name":      filepath.Base(target),
	}

	r := run{name: item.Name, key: target, sender: l.sender}

	if _, err := os.Stat(target); os.IsNotExist(err) {
		if err := os.MkdirAll(target, config.DirPermissions); err != nil {
			if err := l.send(action.Downloading(fmt.Sprintf("Error creating directory: %v", err))); err != nil {
				return action.Action{}, false, err
			}
			if err := l.send(action.DownloadFinished()); err != nil {
				return action.Action{}, false, err
			}
			return none()
		}
		if err := l.send(action.Downloading(fmt.Sprintf("Directory %s created successfully!", target))); err != nil {
			return action.Action{}, false, err
		}

		r.kind = RunDownload
		r.cmd = process.Expand(s.Commands.Download.Name, s.Commands.Download.Args, target, vars)
		r.intro, r.outro = "Download started...", "Download finished!"
	} else {
		r.kind = RunSync
		r.cmd = process.Expand(s.Commands.Sync.Name, s.Commands.Sync.Args, target, vars)
		r.intro, r.outro = "Syncing playlist...", "Syncing finished!"
	}

	if err := l.launch(r); err != nil {
		return failRun(l.sender, "failed to "+r.kind+" "+item.Name, err)
	}
	if l.store != nil {
		if err := l.store.SetLastPlaylist(item.Name); err != nil {
			l.log.WithError(err).Warn("failed to save session")
		}
	}
	return none()
}
