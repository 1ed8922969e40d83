package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/spotui/internal/app"
	"github.com/studiowebux/spotui/internal/config"
)

type tickMsg time.Time

type frameMsg time.Time

// busMsg reports that the bus has queued actions
type busMsg struct{}

// Model adapts the dispatch loop to Bubble Tea
type Model struct {
	loop      *app.Loop
	tickRate  time.Duration
	frameRate time.Duration
	suspended bool
	err       error
}

// New creates the program model for loop
func New(loop *app.Loop, settings *config.Settings) *Model {
	return &Model{
		loop:      loop,
		tickRate:  interval(settings.TickRate),
		frameRate: interval(settings.FrameRate),
	}
}

// interval turns a per-second rate into the time between two events
func interval(perSecond float64) time.Duration {
	if perSecond <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / perSecond)
}

// Err returns the error that ended the program, if any
func (m *Model) Err() error { return m.err }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) frame() tea.Cmd {
	return tea.Tick(m.frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// waitBus blocks until a producer signals the bus
func (m *Model) waitBus() tea.Cmd {
	ready := m.loop.Bus().Ready()
	return func() tea.Msg {
		<-ready
		return busMsg{}
	}
}

// Init starts the timers and the bus watch
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.frame(), m.waitBus())
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var ev app.Event
	var next tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		ev = app.Event{Kind: app.EventKey, Key: KeyString(msg)}

	case tea.WindowSizeMsg:
		ev = app.Event{Kind: app.EventResize, Width: msg.Width, Height: msg.Height}

	case tickMsg:
		ev = app.Event{Kind: app.EventTick}
		next = m.tick()

	case frameMsg:
		ev = app.Event{Kind: app.EventRender}
		next = m.frame()

	case busMsg:
		return m, m.after(m.loop.Drain(), m.waitBus())

	case tea.ResumeMsg:
		m.suspended = false
		ev = app.Event{Kind: app.EventResume}

	default:
		return m, nil
	}

	return m, m.after(m.loop.HandleEvent(ev), next)
}

// after decides what the program does once the loop handled an event
func (m *Model) after(err error, next tea.Cmd) tea.Cmd {
	if err != nil {
		m.err = err
		return tea.Quit
	}
	if m.loop.ShouldQuit() {
		return tea.Quit
	}
	if m.loop.Suspended() && !m.suspended {
		m.suspended = true
		return tea.Batch(next, tea.Suspend)
	}
	return next
}

// View returns the last frame rendered by the loop
func (m *Model) View() string {
	frame := m.loop.Frame()
	if frame == "" {
		return "Initializing..."
	}
	return frame
}

// KeyString names a key press the way bindings are written
func KeyString(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeySpace:
		return "space"
	case tea.KeyRunes:
		if msg.Alt {
			return "alt+" + string(msg.Runes)
		}
		return string(msg.Runes)
	}
	return msg.String()
}
