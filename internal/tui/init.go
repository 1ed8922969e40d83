package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/spotui/internal/app"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/watch"
)

// Run starts the TUI and, when w is not nil, the folder watcher. It
// returns once the program exits; the bus is closed on return so workers
// still streaming stop.
func Run(ctx context.Context, loop *app.Loop, settings *config.Settings, w *watch.Watcher) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer loop.Bus().Close()

	g, gctx := errgroup.WithContext(ctx)
	m := New(loop, settings)

	// Note: Mouse is disabled by default in bubbletea
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if w != nil {
		g.Go(func() error {
			return w.Run(gctx, loop.Bus())
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return m.Err()
}
