package action

import (
	"testing"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Action
		want bool
	}{
		{"same simple", Quit(), Quit(), true},
		{"different kinds", Quit(), Tick(), false},
		{"same selection", SelectPlaylist("/music", 2), SelectPlaylist("/music", 2), true},
		{"different index", SelectPlaylist("/music", 2), SelectPlaylist("/music", 1), false},
		{"same dirs", GetDirs([]string{"a", "b"}), GetDirs([]string{"a", "b"}), true},
		{"different dirs", GetDirs([]string{"a"}), GetDirs([]string{"a", "b"}), false},
		{"nil and empty dirs", GetDirs(nil), GetDirs([]string{}), true},
		{"line text", Downloading("Done"), Downloading("Done"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDirsDoesNotAlias(t *testing.T) {
	names := []string{"a", "b"}
	a := GetDirs(names)
	names[0] = "z"
	if a.Names[0] != "a" {
		t.Errorf("GetDirs kept a reference to the caller slice")
	}

	c := a.Clone()
	c.Names[1] = "y"
	if a.Names[1] != "b" {
		t.Errorf("Clone shares Names with the original")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"move_up", KindMoveUp, false},
		{" Quit ", KindQuit, false},
		{"enter_downloader", KindEnterDownloader, false},
		{"select_playlist", "", true},
		{"downloading", "", true},
		{"nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{Tick(), "tick"},
		{Resize(80, 24), "resize(80,24)"},
		{SelectPlaylist("/music", 2), "select_playlist(/music,2)"},
		{Downloading("Done"), `downloading("Done")`},
		{GetDirs([]string{"a", "b"}), "get_dirs([a,b])"},
	}

	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
