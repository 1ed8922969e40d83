// Package watch turns filesystem changes in the download folder into
// Refresh actions so the manager list stays current.
package watch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
)

// DefaultDebounce groups bursts of events, e.g. a download writing many
// files, into a single refresh
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors one directory using fsnotify
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	log       *logrus.Entry

	mu  sync.Mutex
	dir string
}

// New creates a watcher; nothing is watched until Watch is called
func New(debounce time.Duration, log *logrus.Entry) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsWatcher: fsWatcher, debounce: debounce, log: log}, nil
}

// Watch switches the watched directory to dir
func (w *Watcher) Watch(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		// the old directory may be gone already
		_ = w.fsWatcher.Remove(w.dir)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dir = dir

	w.log.WithField("directory", dir).Info("watching directory")
	return nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Run forwards changes as Refresh actions until ctx ends. The underlying
// watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, s bus.Sender) error {
	defer w.fsWatcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("fsnotify watcher error")

		case <-timer.C:
			if err := s.Send(action.Refresh()); err != nil {
				return err
			}
		}
	}
}
