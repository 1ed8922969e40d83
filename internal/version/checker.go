package version

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/studiowebux/spotui/internal/process"
)

const (
	// MinSpotdl is the oldest spotdl release whose sync command accepts
	// --save-file and --simple-tui
	MinSpotdl = "4.2.0"

	checkTimeout = 10 * time.Second
)

var versionPattern = regexp.MustCompile(`v?(\d+(?:\.\d+)+(?:[-+][0-9A-Za-z.-]+)?)`)

// Tool is the result of probing an external command
type Tool struct {
	Name    string
	Version string // empty when no version could be read
	Minimum string
}

// Supported reports whether the installed version meets the minimum
func (t Tool) Supported() bool {
	if t.Version == "" {
		return false
	}
	return !isNewerVersion(t.Minimum, t.Version)
}

// Check runs `name --version` and extracts the first version number it
// prints. A command that cannot be started is an error.
func Check(ctx context.Context, runner *process.Runner, name, minimum string) (Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	tool := Tool{Name: name, Minimum: minimum}

	h, err := runner.Start(ctx, process.Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		return tool, fmt.Errorf("%s not found: %w", name, err)
	}

	for line := range h.Lines() {
		if tool.Version != "" {
			continue
		}
		if m := versionPattern.FindStringSubmatch(line); m != nil {
			tool.Version = m[1]
		}
	}

	if code, err := h.Wait(); code != 0 {
		return tool, fmt.Errorf("%s --version exited with status %d: %v", name, code, err)
	}
	return tool, nil
}

// isNewerVersion compares two semantic versions and returns true if latest > current
// Supports versions like "0.0.28", "1.2.3", "0.0.29-dev", etc.
func isNewerVersion(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	n := max(len(latestParts), len(currentParts))
	for len(latestParts) < n {
		latestParts = append(latestParts, 0)
	}
	for len(currentParts) < n {
		currentParts = append(currentParts, 0)
	}

	for i := range n {
		if latestParts[i] != currentParts[i] {
			return latestParts[i] > currentParts[i]
		}
	}
	return false
}

// parseVersion splits a version into its numeric parts, ignoring
// pre-release and build metadata
func parseVersion(version string) []int {
	version = strings.TrimPrefix(version, "v")
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	var result []int
	for _, part := range strings.Split(version, ".") {
		if num, err := strconv.Atoi(part); err == nil {
			result = append(result, num)
		}
	}
	return result
}
