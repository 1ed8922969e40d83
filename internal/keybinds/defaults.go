package keybinds

import (
	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/mode"
)

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerHomeBindings(r)
	registerInputBindings(r)
	registerListBindings(r, ContextFor(mode.Downloader))
	registerListBindings(r, ContextFor(mode.Manager))
	registerManagerBindings(r)
	registerDownloadingBindings(r)
	registerWaitingBindings(r)
	registerIdleBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", action.KindQuit)
	r.Register(ContextGlobal, "ctrl+z", action.KindSuspend)
}

// registerNavigation sets up cursor movement for list screens
func registerNavigation(r *Registry, ctx Context) {
	r.RegisterMultiple(ctx, []string{"up", "k"}, action.KindMoveUp)
	r.RegisterMultiple(ctx, []string{"down", "j"}, action.KindMoveDown)
	r.RegisterMultiple(ctx, []string{"g g", "home"}, action.KindMoveTop)
	r.RegisterMultiple(ctx, []string{"G", "end"}, action.KindMoveBottom)
	r.Register(ctx, "?", action.KindHelp)
}

func registerHomeBindings(r *Registry) {
	ctx := ContextFor(mode.Home)
	registerNavigation(r, ctx)
	r.Register(ctx, "d", action.KindEnterDownloader)
	r.Register(ctx, "m", action.KindEnterManager)
	r.Register(ctx, "e", action.KindEnterEditing)
	r.Register(ctx, "q", action.KindQuit)
}

// Printable keys are left to the path input component
func registerInputBindings(r *Registry) {
	r.Register(ContextFor(mode.Input), "esc", action.KindQuitEditing)
}

func registerListBindings(r *Registry, ctx Context) {
	registerNavigation(r, ctx)
	r.RegisterMultiple(ctx, []string{"esc", "h", "left"}, action.KindBackHome)
	r.Register(ctx, "e", action.KindEnterEditing)
	r.Register(ctx, "q", action.KindQuit)
}

func registerManagerBindings(r *Registry) {
	r.Register(ContextFor(mode.Manager), "r", action.KindRefresh)
}

func registerDownloadingBindings(r *Registry) {
	r.Register(ContextFor(mode.Downloading), "?", action.KindHelp)
}

func registerWaitingBindings(r *Registry) {
	ctx := ContextFor(mode.Waiting)
	r.RegisterMultiple(ctx, []string{"enter", "esc"}, action.KindBackHome)
	r.Register(ctx, "y", action.KindCopyOutput)
	r.Register(ctx, "?", action.KindHelp)
	r.Register(ctx, "q", action.KindQuit)
}

func registerIdleBindings(r *Registry) {
	r.Register(ContextFor(mode.Idle), "q", action.KindQuit)
}
