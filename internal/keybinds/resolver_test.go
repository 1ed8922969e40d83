package keybinds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/mode"
)

func newTestResolver() *Resolver {
	r := NewRegistry()
	r.Register(ContextGlobal, "ctrl+c", action.KindQuit)
	r.Register(ctxHome, "k", action.KindMoveUp)
	r.Register(ctxHome, "g g", action.KindMoveTop)
	r.Register(ctxPicker, "k", action.KindMoveDown)
	return NewResolver(r)
}

func TestResolveSingleKeyLeavesBufferUntouched(t *testing.T) {
	res := newTestResolver()

	// Seed the buffer with an unbound key
	if _, ok := res.Resolve(mode.Home, "x"); ok {
		t.Fatal("Expected no action for unbound key")
	}

	got, ok := res.Resolve(mode.Home, "k")
	if !ok || !got.Equal(action.MoveUp()) {
		t.Fatalf("Resolve(k) = %v, %v; want move_up", got, ok)
	}

	buf := res.Buffer()
	if len(buf) != 1 || buf[0] != "x" {
		t.Errorf("Buffer = %v, want [x]", buf)
	}
}

func TestResolveChord(t *testing.T) {
	res := newTestResolver()

	if _, ok := res.Resolve(mode.Home, "g"); ok {
		t.Fatal("Expected no action after the first key of a chord")
	}

	got, ok := res.Resolve(mode.Home, "g")
	if !ok || !got.Equal(action.Simple(action.KindMoveTop)) {
		t.Fatalf("Resolve(g g) = %v, %v; want move_top", got, ok)
	}

	// A match does not clear the buffer
	if len(res.Buffer()) != 2 {
		t.Errorf("Buffer = %v, want two keys kept until tick", res.Buffer())
	}

	// A third g no longer matches until the buffer is reset
	if _, ok := res.Resolve(mode.Home, "g"); ok {
		t.Error("Expected no match for g g g")
	}
}

func TestResetClearsBuffer(t *testing.T) {
	res := newTestResolver()
	res.Resolve(mode.Home, "a")
	res.Resolve(mode.Home, "b")
	res.Reset()

	if len(res.Buffer()) != 0 {
		t.Errorf("Buffer = %v, want empty after reset", res.Buffer())
	}

	res.Resolve(mode.Home, "g")
	if got, ok := res.Resolve(mode.Home, "g"); !ok || got.Kind != action.KindMoveTop {
		t.Errorf("Expected chord to resolve after reset, got %v, %v", got, ok)
	}
}

func TestResolveIsModeScoped(t *testing.T) {
	res := newTestResolver()

	tests := []struct {
		mode mode.Mode
		key  string
		want action.Kind
		ok   bool
	}{
		{mode.Home, "k", action.KindMoveUp, true},
		{mode.Downloader, "k", action.KindMoveDown, true},
		{mode.Waiting, "k", "", false},
		{mode.Waiting, "ctrl+c", action.KindQuit, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.key, func(t *testing.T) {
			res.Reset()
			got, ok := res.Resolve(tt.mode, tt.key)
			if ok != tt.ok || got.Kind != tt.want {
				t.Errorf("Resolve(%s, %s) = %v, %v; want %s, %v", tt.mode, tt.key, got.Kind, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoadOrDefaultAppliesJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	content := `{
		// user overrides
		"home": {
			"x": "quit",
			"z z": "move_bottom",
		},
		"unbind": {"home": ["q"]},
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	reg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}

	if kind, ok := reg.Match(ctxHome, "x"); !ok || kind != action.KindQuit {
		t.Errorf("Expected x -> quit, got %v, %v", kind, ok)
	}
	if kind, ok := reg.Match(ctxHome, "z  z"); !ok || kind != action.KindMoveBottom {
		t.Errorf("Expected chord z z -> move_bottom, got %v, %v", kind, ok)
	}
	if reg.HasBinding(ctxHome, "q") {
		t.Error("Expected q to be unbound in home")
	}
	if !reg.HasBinding(ctxHome, "j") {
		t.Error("Expected defaults to remain")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	reg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if !reg.HasBinding(ctxHome, "q") {
		t.Error("Expected default bindings")
	}
}

func TestLoadOrDefaultRejectsUnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	os.WriteFile(path, []byte(`{"home": {"x": "launch_rockets"}}`), 0644)

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("Expected error for unknown action")
	}
}

func TestListBindingsSkipsShadowedGlobals(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "q", action.KindQuit)
	r.Register(ctxWait, "q", action.KindBackHome)
	r.Register(ContextGlobal, "ctrl+c", action.KindQuit)

	bindings := r.ListBindings(ctxWait)
	if len(bindings) != 2 {
		t.Fatalf("Expected 2 bindings, got %v", bindings)
	}
	for _, b := range bindings {
		if b.Keys == "q" && b.Action != action.KindBackHome {
			t.Errorf("Expected mode binding for q to win, got %s", b.Action)
		}
	}
}
