package action

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies an Action variant
type Kind string

const (
	// Lifecycle
	KindTick    Kind = "tick"
	KindRender  Kind = "render"
	KindResize  Kind = "resize"
	KindSuspend Kind = "suspend"
	KindResume  Kind = "resume"
	KindQuit    Kind = "quit"
	KindRefresh Kind = "refresh"
	KindError   Kind = "error"
	KindHelp    Kind = "help"

	// Navigation
	KindMoveUp       Kind = "move_up"
	KindMoveDown     Kind = "move_down"
	KindMoveTop      Kind = "move_top"
	KindMoveBottom   Kind = "move_bottom"
	KindEnterEditing Kind = "enter_editing"
	KindQuitEditing  Kind = "quit_editing"
	KindBackHome     Kind = "back_home"
	KindSave         Kind = "save"
	KindCopyOutput   Kind = "copy_output"

	// Screen entry
	KindEnterDownloader Kind = "enter_downloader"
	KindEnterManager    Kind = "enter_manager"

	// Selection
	KindSelectPlaylist       Kind = "select_playlist"
	KindSelectActivePlaylist Kind = "select_active_playlist"
	KindSelectFolder         Kind = "select_folder"

	// Process results
	KindDownloading      Kind = "downloading"
	KindDownloadFinished Kind = "download_finished"
	KindGetDirs          Kind = "get_dirs"
)

// bindable lists the kinds that carry no payload and can be mapped to keys.
var bindable = map[Kind]bool{
	KindQuit:            true,
	KindSuspend:         true,
	KindResume:          true,
	KindRefresh:         true,
	KindHelp:            true,
	KindMoveUp:          true,
	KindMoveDown:        true,
	KindMoveTop:         true,
	KindMoveBottom:      true,
	KindEnterEditing:    true,
	KindQuitEditing:     true,
	KindBackHome:        true,
	KindSave:            true,
	KindCopyOutput:      true,
	KindEnterDownloader: true,
	KindEnterManager:    true,
}

// Action is an immutable event flowing through the bus.
// Only the fields relevant to Kind are populated.
type Action struct {
	Kind   Kind
	Text   string   // Error message or Downloading line
	Path   string   // SelectPlaylist / SelectFolder path
	Index  int      // SelectPlaylist / SelectActivePlaylist index
	Width  int      // Resize
	Height int      // Resize
	Names  []string // GetDirs
}

// Simple returns a payload-free action of the given kind
func Simple(k Kind) Action { return Action{Kind: k} }

func Tick() Action             { return Action{Kind: KindTick} }
func Render() Action           { return Action{Kind: KindRender} }
func Quit() Action             { return Action{Kind: KindQuit} }
func Refresh() Action          { return Action{Kind: KindRefresh} }
func Suspend() Action          { return Action{Kind: KindSuspend} }
func Resume() Action           { return Action{Kind: KindResume} }
func Help() Action             { return Action{Kind: KindHelp} }
func MoveUp() Action           { return Action{Kind: KindMoveUp} }
func MoveDown() Action         { return Action{Kind: KindMoveDown} }
func EnterEditing() Action     { return Action{Kind: KindEnterEditing} }
func QuitEditing() Action      { return Action{Kind: KindQuitEditing} }
func BackHome() Action         { return Action{Kind: KindBackHome} }
func EnterDownloader() Action  { return Action{Kind: KindEnterDownloader} }
func EnterManager() Action     { return Action{Kind: KindEnterManager} }
func DownloadFinished() Action { return Action{Kind: KindDownloadFinished} }

func Resize(width, height int) Action {
	return Action{Kind: KindResize, Width: width, Height: height}
}

func Error(msg string) Action {
	return Action{Kind: KindError, Text: msg}
}

// Errorf formats an Error action
func Errorf(format string, args ...any) Action {
	return Error(fmt.Sprintf(format, args...))
}

func Downloading(line string) Action {
	return Action{Kind: KindDownloading, Text: line}
}

// SelectPlaylist selects the playlist at index, to be stored under path
func SelectPlaylist(path string, index int) Action {
	return Action{Kind: KindSelectPlaylist, Path: path, Index: index}
}

func SelectActivePlaylist(index int) Action {
	return Action{Kind: KindSelectActivePlaylist, Index: index}
}

func SelectFolder(path string) Action {
	return Action{Kind: KindSelectFolder, Path: path}
}

// GetDirs carries the result of a directory scan
func GetDirs(names []string) Action {
	return Action{Kind: KindGetDirs, Names: slices.Clone(names)}
}

// Equal reports whether two actions carry the same value
func (a Action) Equal(b Action) bool {
	return a.Kind == b.Kind &&
		a.Text == b.Text &&
		a.Path == b.Path &&
		a.Index == b.Index &&
		a.Width == b.Width &&
		a.Height == b.Height &&
		slices.Equal(a.Names, b.Names)
}

// Clone returns a copy that shares no memory with a
func (a Action) Clone() Action {
	a.Names = slices.Clone(a.Names)
	return a
}

// Is reports whether the action is of kind k
func (a Action) Is(k Kind) bool { return a.Kind == k }

// String renders the action for logs, e.g. select_playlist(/music,2)
func (a Action) String() string {
	switch a.Kind {
	case KindResize:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.Width, a.Height)
	case KindError, KindDownloading:
		return fmt.Sprintf("%s(%s)", a.Kind, strconv.Quote(a.Text))
	case KindSelectPlaylist:
		return fmt.Sprintf("%s(%s,%d)", a.Kind, a.Path, a.Index)
	case KindSelectActivePlaylist:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
	case KindSelectFolder:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Path)
	case KindGetDirs:
		return fmt.Sprintf("%s([%s])", a.Kind, strings.Join(a.Names, ","))
	}
	return string(a.Kind)
}

// ParseKind resolves a configured action name to a bindable kind
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !bindable[k] {
		return "", fmt.Errorf("unknown or non-bindable action %q", name)
	}
	return k, nil
}

// Bindable reports whether k can be bound to a key
func Bindable(k Kind) bool { return bindable[k] }

// MarshalText encodes the kind name
func (k Kind) MarshalText() ([]byte, error) { return []byte(k), nil }

// UnmarshalText decodes a bindable kind name
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
