package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/studiowebux/spotui/internal/app"
	"github.com/studiowebux/spotui/internal/catalog"
	"github.com/studiowebux/spotui/internal/component"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/history"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/logging"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/oauth"
	"github.com/studiowebux/spotui/internal/process"
	"github.com/studiowebux/spotui/internal/session"
	"github.com/studiowebux/spotui/internal/tui"
	"github.com/studiowebux/spotui/internal/watch"
)

// openLog configures the file logger from the settings
func openLog(settings config.Settings) (*logrus.Logger, io.Closer, error) {
	path, err := config.ExpandPath(settings.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	return logging.Configure(path, settings.Logging.Level)
}

func oauthConfig(settings config.Settings) *oauth2.Config {
	c := settings.Catalog
	return oauth.NewConfig(c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes)
}

// newCatalog builds the playlist source selected in the settings
func newCatalog(ctx context.Context, settings config.Settings, logger *logrus.Logger) (catalog.Catalog, error) {
	switch settings.Catalog.Source {
	case config.SourceFile:
		path, err := config.ExpandPath(settings.Catalog.File)
		if err != nil {
			return nil, err
		}
		return catalog.NewFileCatalog(path), nil

	case config.SourceSpotify:
		client, err := oauth.Client(ctx, oauthConfig(settings), oauth.NewTokenStore(config.TokenFile))
		if err != nil {
			return nil, err
		}
		return catalog.NewSpotify(client, catalog.DefaultBaseURL, logging.For(logger, "catalog")), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", settings.Catalog.Source)
}

// rememberedFolder picks the download folder: the flag, then the last
// folder chosen in the TUI, then the settings
func rememberedFolder(settings config.Settings) string {
	if flagDownloadDir != "" {
		return flagDownloadDir
	}
	sess := session.NewManager(config.SessionFile)
	if err := sess.Load(); err == nil && sess.DownloadDir() != "" {
		return sess.DownloadDir()
	}
	return settings.DownloadDir
}

// watchedFolder saves the chosen folder in the session and points the
// watcher at it
type watchedFolder struct {
	*session.Manager
	watcher *watch.Watcher
	log     *logrus.Entry
}

func (f *watchedFolder) SetDownloadDir(dir string) error {
	if err := f.Manager.SetDownloadDir(dir); err != nil {
		return err
	}
	if f.watcher == nil {
		return nil
	}
	// the folder may not exist until the first download
	if err := f.watcher.Watch(dir); err != nil {
		f.log.WithError(err).WithField("dir", dir).Debug("folder not watched")
	}
	return nil
}

// runTUI wires the components and runs the interactive program
func runTUI(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the TUI needs a terminal (use `spotui sync` for scripts)")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger, closer, err := openLog(settings)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logging.For(logger, "main")

	ctx, cancel := signalContext()
	defer cancel()

	sess := session.NewManager(config.SessionFile)
	if err := sess.Load(); err != nil {
		log.WithError(err).Warn("session ignored")
	}

	folder := flagDownloadDir
	if folder == "" {
		folder = sess.DownloadDir()
	}
	if folder == "" {
		folder = settings.DownloadDir
	}

	keys, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	if result := keybinds.NewValidator().ValidateRegistry(keys); result.HasErrors() {
		return fmt.Errorf("invalid keybindings in %s:\n%s", config.KeybindsFile, result.String())
	}

	cat, err := newCatalog(ctx, settings, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Loading playlists...")
	playlists, err := cat.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	var recorder component.RunRecorder
	if settings.History.Enabled {
		store, err := history.Open(config.DatabasePath)
		if err != nil {
			log.WithError(err).Warn("history disabled")
		} else {
			defer store.Close()
			recorder = store
		}
	}

	var watcher *watch.Watcher
	if settings.Manager.Watch {
		if watcher, err = watch.New(watch.DefaultDebounce, logging.For(logger, "watch")); err != nil {
			log.WithError(err).Warn("folder watching disabled")
			watcher = nil
		} else if folder != "" {
			if expanded, err := config.ExpandPath(folder); err == nil {
				if err := watcher.Watch(expanded); err != nil {
					log.WithError(err).WithField("dir", expanded).Debug("folder not watched")
				}
			}
		}
	}

	supervisor := process.NewSupervisor(process.NewRunner(logging.For(logger, "process")), logging.For(logger, "supervisor"))
	defer supervisor.Wait()

	start := mode.Home
	if folder == "" {
		start = mode.Input
	}

	comps := component.Defaults(component.Deps{
		Ctx:        ctx,
		Log:        logging.For(logger, "component"),
		Playlists:  playlists,
		Folder:     folder,
		Supervisor: supervisor,
		Session:    &watchedFolder{Manager: sess, watcher: watcher, log: log},
		History:    recorder,

		LastPlaylist: sess.LastPlaylist(),
	})

	loop := app.New(app.Options{
		Settings:   &settings,
		Keys:       keys,
		Start:      start,
		Components: comps,
		Log:        logging.For(logger, "app"),
	})

	log.WithField("mode", start).WithField("playlists", len(playlists)).Info("starting")
	err = tui.Run(ctx, loop, &settings, watcher)
	// stop children still streaming before waiting for them
	cancel()
	return err
}
