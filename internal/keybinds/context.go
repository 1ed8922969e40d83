package keybinds

import (
	"strings"

	"github.com/studiowebux/spotui/internal/mode"
)

// Context represents the scope in which keybindings are active.
// Every mode has its own context; ContextGlobal applies in all of them.
type Context string

const (
	ContextGlobal Context = "global" // Available in every mode
)

// ContextFor returns the binding context of a mode
func ContextFor(m mode.Mode) Context {
	return Context(m.String())
}

// Contexts lists the global context followed by every mode context
func Contexts() []Context {
	contexts := []Context{ContextGlobal}
	for _, m := range mode.All() {
		contexts = append(contexts, ContextFor(m))
	}
	return contexts
}

// NormalizeSequence turns "g  g" or " g g" into the canonical "g g".
// Keys inside a sequence are separated by single spaces.
func NormalizeSequence(seq string) string {
	return strings.Join(strings.Fields(seq), " ")
}

// JoinSequence joins individual key names into a sequence string
func JoinSequence(keys []string) string {
	return strings.Join(keys, " ")
}

// IsChord reports whether seq holds more than one key
func IsChord(seq string) bool {
	return strings.Contains(NormalizeSequence(seq), " ")
}
