package mode

import (
	"fmt"
	"strings"
)

// Mode is the exclusive "current screen" of the application
type Mode int

const (
	Home        Mode = iota // Main menu
	Input                   // Path entry
	Downloader              // Playlist picker
	Manager                 // Archive picker
	Downloading             // Output viewer while a process runs
	Waiting                 // Process finished, waiting for acknowledgment
	Idle
)

var names = map[Mode]string{
	Home:        "home",
	Input:       "input",
	Downloader:  "downloader",
	Manager:     "manager",
	Downloading: "downloading",
	Waiting:     "waiting",
	Idle:        "idle",
}

// All lists every mode in declaration order
func All() []Mode {
	return []Mode{Home, Input, Downloader, Manager, Downloading, Waiting, Idle}
}

func (m Mode) String() string {
	if n, ok := names[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Parse resolves a lowercase mode name
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, n := range names {
		if n == s {
			return m, nil
		}
	}
	return Idle, fmt.Errorf("unknown mode %q", s)
}
