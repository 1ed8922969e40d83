package keybinds

import (
	"sort"
	"strings"

	"github.com/studiowebux/spotui/internal/action"
)

// Binding represents a keybinding mapping
type Binding struct {
	Keys    string // Single key or space separated chord
	Action  action.Kind
	Context Context
}

// Registry manages keybinding mappings and matching
type Registry struct {
	// bindings maps context -> key sequence -> action
	bindings map[Context]map[string]action.Kind
}

// NewRegistry creates a new keybinding registry
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[Context]map[string]action.Kind),
	}
}

// Register adds a keybinding to the registry
func (r *Registry) Register(context Context, keys string, kind action.Kind) {
	keys = NormalizeSequence(keys)
	if keys == "" {
		return
	}
	if r.bindings[context] == nil {
		r.bindings[context] = make(map[string]action.Kind)
	}
	r.bindings[context][keys] = kind
}

// RegisterMultiple registers multiple keybindings for the same action
func (r *Registry) RegisterMultiple(context Context, keys []string, kind action.Kind) {
	for _, k := range keys {
		r.Register(context, k, kind)
	}
}

// Unregister removes a binding from a context
func (r *Registry) Unregister(context Context, keys string) {
	delete(r.bindings[context], NormalizeSequence(keys))
}

// Match attempts to match a key sequence to an action in the given context.
// Contexts are checked in priority order: specific context -> global
func (r *Registry) Match(context Context, keys string) (action.Kind, bool) {
	keys = NormalizeSequence(keys)

	if contextBindings, ok := r.bindings[context]; ok {
		if kind, ok := contextBindings[keys]; ok {
			return kind, true
		}
	}

	if globalBindings, ok := r.bindings[ContextGlobal]; ok {
		if kind, ok := globalBindings[keys]; ok {
			return kind, true
		}
	}

	return "", false
}

// GetBinding returns the key(s) bound to an action in a context
func (r *Registry) GetBinding(context Context, kind action.Kind) []string {
	var keys []string

	for k, act := range r.bindings[context] {
		if act == kind {
			keys = append(keys, k)
		}
	}

	// If not found, check global
	if len(keys) == 0 {
		for k, act := range r.bindings[ContextGlobal] {
			if act == kind {
				keys = append(keys, k)
			}
		}
	}

	sort.Strings(keys)
	return keys
}

// GetBindingString returns a human-readable string of keys bound to an action
func (r *Registry) GetBindingString(context Context, kind action.Kind) string {
	keys := r.GetBinding(context, kind)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, ", ")
}

// ListBindings returns all bindings for a context followed by the global ones,
// sorted by action then keys
func (r *Registry) ListBindings(context Context) []Binding {
	var bindings []Binding

	for k, kind := range r.bindings[context] {
		bindings = append(bindings, Binding{Keys: k, Action: kind, Context: context})
	}

	if context != ContextGlobal {
		for k, kind := range r.bindings[ContextGlobal] {
			if _, shadowed := r.bindings[context][k]; shadowed {
				continue
			}
			bindings = append(bindings, Binding{Keys: k, Action: kind, Context: ContextGlobal})
		}
	}

	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Action != bindings[j].Action {
			return bindings[i].Action < bindings[j].Action
		}
		return bindings[i].Keys < bindings[j].Keys
	})
	return bindings
}

// HasBinding checks if a key sequence is bound in a context
func (r *Registry) HasBinding(context Context, keys string) bool {
	_, ok := r.Match(context, keys)
	return ok
}

// Merge combines bindings from another registry, with other taking precedence
func (r *Registry) Merge(other *Registry) {
	for context, contextBindings := range other.bindings {
		for k, kind := range contextBindings {
			r.Register(context, k, kind)
		}
	}
}
