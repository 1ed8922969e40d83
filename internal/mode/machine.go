package mode

import "github.com/studiowebux/spotui/internal/action"

// Transition describes the effect of one action on the machine
type Transition struct {
	From    Mode
	To      Mode
	Changed bool
}

// Machine holds the authoritative Mode. It is owned by the dispatch loop
// and must only be touched from that goroutine.
type Machine struct {
	current Mode
	invoker Mode // mode that entered Input
	done    bool
}

// NewMachine creates a machine starting in the given mode
func NewMachine(start Mode) *Machine {
	return &Machine{current: start, invoker: Home}
}

// Current returns a snapshot of the current mode
func (m *Machine) Current() Mode { return m.current }

// Done reports whether Quit has been applied
func (m *Machine) Done() bool { return m.done }

// Apply performs the transition triggered by a, if any.
// Unmatched actions leave the mode unchanged.
func (m *Machine) Apply(a action.Action) Transition {
	from := m.current
	to := m.next(a)
	m.current = to
	return Transition{From: from, To: to, Changed: from != to}
}

func (m *Machine) next(a action.Action) Mode {
	cur := m.current

	switch a.Kind {
	case action.KindQuit:
		m.done = true
		return cur

	case action.KindEnterDownloader:
		return Downloader

	case action.KindEnterManager:
		return Manager

	case action.KindEnterEditing:
		// re-entering keeps the original invoker
		if cur == Input {
			return cur
		}
		m.invoker = cur
		return Input

	case action.KindSelectFolder:
		if cur == Input {
			m.invoker = Home
			return Home
		}

	case action.KindQuitEditing:
		if cur == Input {
			back := m.invoker
			m.invoker = Home
			return back
		}

	case action.KindSelectPlaylist:
		if cur == Downloader {
			return Downloading
		}

	case action.KindSelectActivePlaylist:
		if cur == Manager {
			return Downloading
		}

	case action.KindDownloadFinished:
		if cur == Downloading {
			return Waiting
		}

	case action.KindBackHome:
		switch cur {
		case Waiting, Home, Downloader, Manager:
			return Home
		}
	}

	return cur
}
