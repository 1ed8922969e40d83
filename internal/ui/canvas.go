// Package ui holds the rendering primitives components draw into.
//
// A Canvas is a fresh frame split into fixed regions: a header, a bordered
// body, a footer and an optional overlay that replaces the body. Components
// append lines to regions during Draw; the loop renders the result once
// every component has drawn.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrTooSmall is returned when the terminal cannot fit the layout
var ErrTooSmall = errors.New("terminal too small")

const (
	HeaderRows = 2
	FooterRows = 2
	borderRows = 2
	borderCols = 2

	MinWidth  = 24
	MinHeight = HeaderRows + FooterRows + borderRows + 1
)

// Canvas is one frame under construction
type Canvas struct {
	width   int
	height  int
	active  bool
	header  []string
	body    []string
	footer  []string
	overlay []string
	title   string
}

// NewCanvas creates an empty frame of the given terminal size
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Width of the terminal
func (c *Canvas) Width() int { return c.width }

// Height of the terminal
func (c *Canvas) Height() int { return c.height }

// Fits reports whether the layout fits the terminal
func (c *Canvas) Fits() bool {
	return c.width >= MinWidth && c.height >= MinHeight
}

// BodyRows is the number of lines available inside the body border
func (c *Canvas) BodyRows() int {
	return max(c.height-HeaderRows-FooterRows-borderRows, 0)
}

// BodyCols is the number of cells available inside the body border
func (c *Canvas) BodyCols() int {
	return max(c.width-borderCols, 0)
}

// ContentRows is BodyRows minus the rows taken by the title, if any
func (c *Canvas) ContentRows() int {
	if c.title != "" {
		return max(c.BodyRows()-2, 0)
	}
	return c.BodyRows()
}

func (c *Canvas) check() error {
	if !c.Fits() {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTooSmall, c.width, c.height, MinWidth, MinHeight)
	}
	return nil
}

// Header appends lines to the header region
func (c *Canvas) Header(lines ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.header = append(c.header, lines...)
	return nil
}

// Body appends lines to the body region
func (c *Canvas) Body(lines ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.body = append(c.body, lines...)
	return nil
}

// Footer appends lines to the footer region
func (c *Canvas) Footer(lines ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.footer = append(c.footer, lines...)
	return nil
}

// Overlay sets lines shown in a box over the body
func (c *Canvas) Overlay(lines ...string) error {
	if err := c.check(); err != nil {
		return err
	}
	c.overlay = append(c.overlay, lines...)
	return nil
}

// Title names the body box
func (c *Canvas) Title(title string) {
	c.title = title
}

// Highlight draws the body border in the accent color
func (c *Canvas) Highlight() {
	c.active = true
}

// Lines returns what was drawn to the body, for tests
func (c *Canvas) Lines() []string {
	return append([]string(nil), c.body...)
}

// HeaderLines returns what was drawn to the header, for tests
func (c *Canvas) HeaderLines() []string {
	return append([]string(nil), c.header...)
}

// FooterLines returns what was drawn to the footer, for tests
func (c *Canvas) FooterLines() []string {
	return append([]string(nil), c.footer...)
}

// OverlayLines returns what was drawn to the overlay, for tests
func (c *Canvas) OverlayLines() []string {
	return append([]string(nil), c.overlay...)
}

// Render composes the regions into the final frame
func (c *Canvas) Render() string {
	if !c.Fits() {
		msg := fmt.Sprintf("Terminal too small (%dx%d)", c.width, c.height)
		return lipgloss.Place(max(c.width, 1), max(c.height, 1), lipgloss.Center, lipgloss.Center, StyleWarning.Render(msg))
	}

	rows := c.BodyRows()
	cols := c.BodyCols()

	var content string
	if len(c.overlay) > 0 {
		box := styleOverlay.MaxWidth(cols).Render(strings.Join(c.overlay, "\n"))
		content = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, box)
	} else {
		body := c.body
		if c.title != "" {
			body = append([]string{StyleTitle.Render(Truncate(c.title, cols)), ""}, body...)
		}
		content = lipgloss.NewStyle().MaxWidth(cols).Render(strings.Join(clip(body, rows), "\n"))
	}

	style := styleBody
	if c.active {
		style = styleBodyActive
	}
	bodyBox := style.
		Width(cols).
		Height(rows).
		Render(content)

	region := lipgloss.NewStyle().Width(c.width).MaxWidth(c.width)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		region.Height(HeaderRows).MaxHeight(HeaderRows).Render(strings.Join(clip(c.header, HeaderRows), "\n")),
		bodyBox,
		region.Height(FooterRows).MaxHeight(FooterRows).Render(strings.Join(clip(c.footer, FooterRows), "\n")),
	)
}

func clip(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
