/*
Package tui runs the dispatch loop inside a Bubble Tea program.

# Architecture

Bubble Tea owns the terminal. The Model translates its messages into loop
events:
  - tea.KeyMsg becomes a key event, normalized to the names used in keybinds.json
  - tea.WindowSizeMsg becomes a resize
  - tickMsg and frameMsg fire at the configured tick and frame rates
  - busMsg wakes the model when a worker queued an action

View returns the frame the loop rendered last. The loop itself never
touches the terminal.

Run starts the program next to the folder watcher and stops both when
either ends.
*/
package tui
