package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorInvariantUnderNavigation(t *testing.T) {
	const n = 20
	c := NewCursor(6)

	steps := []string{}
	for i := 0; i < 25; i++ {
		steps = append(steps, "down")
	}
	for i := 0; i < 8; i++ {
		steps = append(steps, "up")
	}
	steps = append(steps, "bottom", "up", "top", "down")

	for i, s := range steps {
		switch s {
		case "down":
			c.MoveDown(n)
		case "up":
			c.MoveUp()
		case "top":
			c.Top()
		case "bottom":
			c.Bottom(n)
		}
		require.True(t, c.Valid(n), "step %d (%s): %+v", i, s, c)
	}
}

func TestCursorEdgesAreNoOps(t *testing.T) {
	c := NewCursor(6)
	c.MoveUp()
	assert.Equal(t, Cursor{Index: 0, Offset: 0, Height: 6}, c)

	c.Bottom(3)
	before := c
	c.MoveDown(3)
	assert.Equal(t, before, c)

	empty := NewCursor(6)
	empty.MoveDown(0)
	assert.Equal(t, 0, empty.Index)
}

func TestCursorScrollsWindow(t *testing.T) {
	c := NewCursor(6)
	for i := 0; i < 6; i++ {
		c.MoveDown(10)
	}
	assert.Equal(t, 6, c.Index)
	assert.Equal(t, 1, c.Offset)

	start, end := c.Window(10)
	assert.Equal(t, 1, start)
	assert.Equal(t, 7, end)
}

func TestCursorSetHeightReclamps(t *testing.T) {
	c := NewCursor(6)
	c.Bottom(10)
	require.Equal(t, 9, c.Index)
	require.Equal(t, 4, c.Offset)

	c.SetHeight(2, 10)
	assert.True(t, c.Valid(10))
	assert.Equal(t, 8, c.Offset)

	c.SetHeight(0, 10)
	assert.Equal(t, 1, c.Height)
	assert.True(t, c.Valid(10))
}

func TestCursorClampShrinkingList(t *testing.T) {
	c := NewCursor(4)
	c.Bottom(10)
	c.Clamp(3)
	assert.Equal(t, 2, c.Index)
	assert.True(t, c.Valid(3))

	c.Clamp(0)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 0, c.Offset)
}

func TestCanvasTooSmall(t *testing.T) {
	c := NewCanvas(10, 3)
	err := c.Body("x")
	assert.True(t, errors.Is(err, ErrTooSmall))
	assert.Contains(t, c.Render(), "Terminal too small")
}

func TestCanvasRenderFitsTerminal(t *testing.T) {
	c := NewCanvas(40, 12)
	require.NoError(t, c.Header("spotui"))
	c.Title("Home")
	for i := 0; i < 50; i++ {
		require.NoError(t, c.Body(strings.Repeat("x", 80)))
	}
	require.NoError(t, c.Footer("status"))

	frame := c.Render()
	lines := strings.Split(frame, "\n")
	assert.Len(t, lines, 12)
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 40)
	}
	assert.Equal(t, 4, c.ContentRows())
}

func TestCanvasOverlayReplacesBody(t *testing.T) {
	c := NewCanvas(60, 20)
	require.NoError(t, c.Body("list entry"))
	require.NoError(t, c.Overlay("Help", "q quit"))

	frame := c.Render()
	assert.Contains(t, frame, "q quit")
	assert.NotContains(t, frame, "list entry")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.LessOrEqual(t, runewidth.StringWidth(Truncate("日本語のプレイリスト", 7)), 7)
}
