package version

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/spotui/internal/logging"
	"github.com/studiowebux/spotui/internal/process"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		current  string
		expected bool
	}{
		{"same version", "4.2.0", "4.2.0", false},
		{"patch upgrade", "4.2.1", "4.2.0", true},
		{"minor downgrade", "4.1.0", "4.2.0", false},
		{"major upgrade", "5.0.0", "4.2.11", true},
		{"multi-digit patch", "4.2.10", "4.2.9", true},
		{"different lengths", "4.2", "4.2.0", false},
		{"leading v", "v4.3.0", "4.2.0", true},
		{"pre-release same base", "4.2.0-beta", "4.2.0", false},
		{"build metadata", "4.2.1+build7", "4.2.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isNewerVersion(tt.latest, tt.current)
			if result != tt.expected {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tt.latest, tt.current, result, tt.expected)
			}
		})
	}
}

func TestToolSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"4.2.0", true},
		{"4.2.11", true},
		{"4.1.9", false},
		{"", false},
	}

	for _, tt := range tests {
		tool := Tool{Name: "spotdl", Version: tt.version, Minimum: MinSpotdl}
		if got := tool.Supported(); got != tt.want {
			t.Errorf("Tool{Version: %q}.Supported() = %v, want %v", tt.version, got, tt.want)
		}
	}
}

// fakeTool writes an executable script printing out
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotdl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck(t *testing.T) {
	runner := process.NewRunner(logging.Discard())

	t.Run("reads version", func(t *testing.T) {
		bin := fakeTool(t, `echo "spotdl v4.2.11"`)
		tool, err := Check(context.Background(), runner, bin, MinSpotdl)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if tool.Version != "4.2.11" || !tool.Supported() {
			t.Errorf("tool = %+v", tool)
		}
	})

	t.Run("no version printed", func(t *testing.T) {
		bin := fakeTool(t, `echo "hello"`)
		tool, err := Check(context.Background(), runner, bin, MinSpotdl)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if tool.Supported() {
			t.Error("a tool without a version should not be supported")
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		bin := fakeTool(t, `exit 3`)
		if _, err := Check(context.Background(), runner, bin, MinSpotdl); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		if _, err := Check(context.Background(), runner, "spotui-missing-tool", MinSpotdl); err == nil {
			t.Error("expected error")
		}
	})
}
