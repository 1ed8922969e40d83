/*
Package keybinds provides customizable, mode-scoped keyboard bindings.

# Overview

Every screen mode has its own binding context, named after the mode
("home", "input", "downloader", "manager", "downloading", "waiting",
"idle"). A "global" context applies in every mode; a binding in a mode
context shadows the global one.

A binding maps a key sequence to an action kind. A sequence is either a
single key ("q", "ctrl+c", "enter") or a chord written as space separated
keys ("g g").

# Components

Registry (registry.go):
  - Storage for bindings, keyed by context then sequence
  - Context-aware matching with global fallback

Resolver (resolver.go):
  - Turns key presses into actions for the current mode
  - Single keys win over chords and never enter the sequence buffer
  - The buffer is only cleared by Reset, which the dispatch loop calls on
    every tick; a chord match leaves it in place

Validator (validator.go):
  - Unknown contexts and actions
  - Chords that can never complete because their first key is bound alone
  - Shadowed global bindings and rebound reserved keys (warnings)
  - Printable keys that would be stolen from the path input (warnings)

Defaults (defaults.go):
  - Built-in bindings used when no keybinds.json exists

# Configuration File Format

Keybindings are stored in ~/.spotui/keybinds.json. Comments and trailing
commas are accepted:

	{
	  // vim style chord to jump to the top
	  "downloader": {
	    "g g": "move_top",
	    "G": "move_bottom",
	  },
	  "waiting": {
	    "y": "copy_output"
	  },
	  "unbind": {
	    "home": ["q"]
	  }
	}

Only actions without a payload can be bound. Selection actions such as
select_playlist are produced by the components themselves.

# Thread Safety

Registry and Resolver are not synchronized. Build the registry during
startup; the resolver belongs to the dispatch loop goroutine.
*/
package keybinds
