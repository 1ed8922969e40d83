// Package app is the dispatch loop at the center of spotui.
//
// External events (keys, timer ticks, frame requests, resizes) enter through
// HandleEvent. Keys go through the resolver and every component's key
// handler; whatever they produce is queued on the bus. The loop then drains
// the bus to exhaustion: each action moves the mode machine and is handed to
// every component in registration order. Follow-up actions returned by a
// component are queued and handled in the same drain.
//
// The loop is single-threaded. Only the bus is shared with other goroutines.
package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
	"github.com/studiowebux/spotui/internal/component"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/mode"
	"github.com/studiowebux/spotui/internal/ui"
)

// EventKind identifies an external event
type EventKind int

const (
	EventKey EventKind = iota
	EventTick
	EventRender
	EventResize
	EventQuit
	EventResume
)

// Event is one thing that happened outside the loop
type Event struct {
	Kind   EventKind
	Key    string // EventKey
	Width  int    // EventResize
	Height int    // EventResize
}

// Options configures a Loop
type Options struct {
	Settings   *config.Settings
	Keys       *keybinds.Registry
	Bus        *bus.Bus
	Start      mode.Mode
	Components []component.Component
	Log        *logrus.Entry
}

// Loop owns the mode and drives the components
type Loop struct {
	components []component.Component
	bus        *bus.Bus
	machine    *mode.Machine
	resolver   *keybinds.Resolver
	log        *logrus.Entry

	width     int
	height    int
	frame     string
	suspended bool
}

// New wires the components to the bus and configuration
func New(opts Options) *Loop {
	if opts.Settings == nil {
		s := config.DefaultSettings()
		opts.Settings = &s
	}
	if opts.Keys == nil {
		opts.Keys = keybinds.NewDefaultRegistry()
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	for _, c := range opts.Components {
		c.RegisterActionSender(opts.Bus)
	}
	for _, c := range opts.Components {
		c.RegisterConfig(opts.Settings, opts.Keys)
	}

	return &Loop{
		components: opts.Components,
		bus:        opts.Bus,
		machine:    mode.NewMachine(opts.Start),
		resolver:   keybinds.NewResolver(opts.Keys),
		log:        opts.Log,
	}
}

// Mode returns the current mode
func (l *Loop) Mode() mode.Mode { return l.machine.Current() }

// ShouldQuit reports whether Quit was handled
func (l *Loop) ShouldQuit() bool { return l.machine.Done() }

// Suspended reports whether a Suspend is pending its Resume
func (l *Loop) Suspended() bool { return l.suspended }

// Frame returns the last rendered frame
func (l *Loop) Frame() string { return l.frame }

// KeyBuffer returns the pending multi-key sequence
func (l *Loop) KeyBuffer() []string { return l.resolver.Buffer() }

// Bus returns the bus the loop consumes
func (l *Loop) Bus() *bus.Bus { return l.bus }

// HandleEvent turns an external event into actions and drains the bus.
// A returned error is fatal.
func (l *Loop) HandleEvent(ev Event) error {
	var err error

	switch ev.Kind {
	case EventKey:
		err = l.handleKey(ev.Key)
	case EventTick:
		err = l.bus.Send(action.Tick())
	case EventRender:
		err = l.bus.Send(action.Render())
	case EventResize:
		err = l.bus.Send(action.Resize(ev.Width, ev.Height))
	case EventQuit:
		err = l.bus.Send(action.Quit())
	case EventResume:
		err = l.bus.Send(action.Resume())
	}
	if err != nil {
		return err
	}

	return l.Drain()
}

func (l *Loop) handleKey(key string) error {
	m := l.machine.Current()

	if a, ok := l.resolver.Resolve(m, key); ok {
		if err := l.bus.Send(a); err != nil {
			return err
		}
	}

	for _, c := range l.components {
		if a, ok := c.HandleKeyEvent(key, m); ok {
			if err := l.bus.Send(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// Drain handles queued actions until the bus is empty, including the ones
// queued while draining
func (l *Loop) Drain() error {
	for {
		a, ok := l.bus.TryReceive()
		if !ok {
			return nil
		}
		if err := l.dispatch(a); err != nil {
			return err
		}
	}
}

func (l *Loop) dispatch(a action.Action) error {
	if !a.Is(action.KindTick) && !a.Is(action.KindRender) {
		l.log.WithField("action", a.String()).Debug("dispatch")
	}

	switch a.Kind {
	case action.KindTick:
		l.resolver.Reset()
	case action.KindSuspend:
		l.suspended = true
	case action.KindResume:
		l.suspended = false
	case action.KindResize:
		l.width, l.height = a.Width, a.Height
	}

	if t := l.machine.Apply(a); t.Changed {
		l.log.WithFields(logrus.Fields{"from": t.From, "to": t.To}).Debug("mode changed")
	}

	m := l.machine.Current()
	for _, c := range l.components {
		next, ok, err := c.Update(a, m)
		if err != nil {
			return fmt.Errorf("failed to update on %s: %w", a.Kind, err)
		}
		if ok {
			if err := l.bus.Send(next); err != nil {
				return err
			}
		}
	}

	switch a.Kind {
	case action.KindRender, action.KindResize:
		return l.draw()
	}
	return nil
}

// draw renders every component into a fresh canvas. Draw failures are
// queued as errors and do not stop the frame.
func (l *Loop) draw() error {
	c := ui.NewCanvas(l.width, l.height)
	m := l.machine.Current()

	if c.Fits() {
		for _, comp := range l.components {
			if err := comp.Draw(c, m); err != nil {
				if sendErr := l.bus.Send(action.Errorf("failed to draw: %v", err)); sendErr != nil {
					return sendErr
				}
			}
		}
	}

	l.frame = c.Render()
	return nil
}
