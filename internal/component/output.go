package component

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/ui"
)

// Output keeps the most recent process output lines
type Output struct {
	base
	lines  []string // ring storage
	start  int
	count  int
	copied bool

	copy func(string) error
}

// NewOutput creates an empty output buffer
func NewOutput() *Output {
	return &Output{copy: clipboard.WriteAll}
}

func (o *Output) capacity() int {
	return max(o.settings().MaxOutputLines, 1)
}

// Append adds a line, dropping the oldest one when full
func (o *Output) Append(line string) {
	capacity := o.capacity()
	if len(o.lines) != capacity {
		o.resize(capacity)
	}
	if o.count < capacity {
		o.lines[(o.start+o.count)%capacity] = line
		o.count++
		return
	}
	o.lines[o.start] = line
	o.start = (o.start + 1) % capacity
}

// Lines returns the buffered lines, oldest first
func (o *Output) Lines() []string {
	out := make([]string, o.count)
	for i := range out {
		out[i] = o.lines[(o.start+i)%len(o.lines)]
	}
	return out
}

// Clear drops every buffered line
func (o *Output) Clear() {
	o.lines = nil
	o.start = 0
	o.count = 0
	o.copied = false
}

// resize keeps the newest lines that fit a new capacity
func (o *Output) resize(capacity int) {
	kept := o.Lines()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	o.lines = make([]string, capacity)
	copy(o.lines, kept)
	o.start = 0
	o.count = len(kept)
}

func (o *Output) Update(a action.Action, m mode.Mode) (action.Action, bool, error) {
	switch a.Kind {
	case action.KindDownloading:
		o.Append(a.Text)
	case action.KindBackHome:
		if m == mode.Home {
			o.Clear()
		}
	case action.KindCopyOutput:
		if m != mode.Waiting {
			return none()
		}
		if err := o.copy(strings.Join(o.Lines(), "\n")); err != nil {
			return follow(action.Errorf("failed to copy output: %v", err))
		}
		o.copied = true
	}
	return none()
}

func (o *Output) Draw(c *ui.Canvas, m mode.Mode) error {
	switch m {
	case mode.Downloading:
		c.Title("Output")
	case mode.Waiting:
		if o.copied {
			c.Title("Output (finished, copied to clipboard)")
		} else {
			c.Title("Output (finished)")
		}
	default:
		return nil
	}

	lines := o.Lines()
	rows := c.ContentRows()
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}

	width := c.BodyCols()
	for _, l := range lines {
		if err := c.Body(ui.Truncate(l, width)); err != nil {
			return err
		}
	}
	return nil
}
