package keybinds

import (
	"slices"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/mode"
)

// Resolver turns key presses into actions for the current mode.
//
// A key bound on its own always wins and is not recorded. Any other key is
// appended to the sequence buffer and the whole buffer is matched against
// the chords of the mode. A match fires the chord but keeps the buffer; only
// Reset, called on every Tick, empties it.
//
// Not safe for concurrent use; the dispatch loop owns it.
type Resolver struct {
	registry *Registry
	buffer   []string
}

// NewResolver creates a resolver over the given registry
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve handles one key press in mode m
func (r *Resolver) Resolve(m mode.Mode, key string) (action.Action, bool) {
	ctx := ContextFor(m)

	if kind, ok := r.registry.Match(ctx, key); ok {
		return action.Simple(kind), true
	}

	r.buffer = append(r.buffer, key)
	if len(r.buffer) < 2 {
		return action.Action{}, false
	}

	if kind, ok := r.registry.Match(ctx, JoinSequence(r.buffer)); ok {
		return action.Simple(kind), true
	}
	return action.Action{}, false
}

// Reset clears the key sequence buffer
func (r *Resolver) Reset() {
	r.buffer = r.buffer[:0]
}

// Buffer returns a copy of the pending key sequence
func (r *Resolver) Buffer() []string {
	return slices.Clone(r.buffer)
}

// Registry exposes the bindings used by the resolver
func (r *Resolver) Registry() *Registry {
	return r.registry
}
