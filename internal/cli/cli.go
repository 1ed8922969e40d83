package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/catalog"
	"github.com/studiowebux/spotui/internal/component"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/history"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/process"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// SyncOptions contains options for a headless download or sync
type SyncOptions struct {
	Query    string // fuzzy playlist name or id; empty prompts when interactive
	Folder   string // download folder, defaults to Settings.DownloadDir
	Settings *config.Settings
	Catalog  catalog.Catalog
	History  component.RunRecorder // optional
	Out      io.Writer
	Log      *logrus.Entry
}

// lineWriter prints streamed output lines instead of queuing them
type lineWriter struct {
	w io.Writer
}

func (l lineWriter) Send(a action.Action) error {
	if a.Is(action.KindDownloading) {
		_, err := fmt.Fprintln(l.w, a.Text)
		return err
	}
	return nil
}

// Sync downloads the matching playlist into its folder, or syncs it when
// the folder already exists. Output is streamed to opts.Out.
func Sync(ctx context.Context, opts SyncOptions) error {
	s := opts.Settings
	if s == nil {
		d := config.DefaultSettings()
		s = &d
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	items, err := opts.Catalog.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	var item catalog.Item
	if opts.Query == "" {
		if !isInteractive() {
			return fmt.Errorf("no playlist given (pass a name or run in a terminal)")
		}
		item, err = promptForPlaylist(items)
	} else {
		item, err = catalog.Match(items, opts.Query)
	}
	if err != nil {
		return err
	}

	url := item.URL
	if url == "" {
		if url, err = opts.Catalog.ResolvePlayableURL(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", item.Name, err)
		}
	}

	folder := opts.Folder
	if folder == "" {
		folder = s.DownloadDir
	}
	if folder == "" {
		return fmt.Errorf("no download folder configured (use --download-dir or download_dir)")
	}
	folder, err = config.ExpandPath(folder)
	if err != nil {
		return err
	}
	target := component.TargetDir(folder, item.Name)

	vars := map[string]string{
		"url":       url,
		"save_file": s.SaveFile,
		"name":      filepath.Base(target),
	}

	kind := component.RunSync
	tmpl := s.Commands.Sync
	job := process.Job{Intro: "Syncing playlist...", Outro: "Syncing finished!"}

	if _, err := os.Stat(target); os.IsNotExist(err) {
		if err := os.MkdirAll(target, config.DirPermissions); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
		fmt.Fprintf(out, "Directory %s created successfully!\n", target)
		kind = component.RunDownload
		tmpl = s.Commands.Download
		job = process.Job{Intro: "Download started...", Outro: "Download finished!"}
	}

	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	// Handle Ctrl+C for graceful cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nSync cancelled by user")
			cancel()
		case <-ctx.Done():
		}
	}()

	cmd := process.Expand(tmpl.Name, tmpl.Args, target, vars)
	h, err := process.NewRunner(log).Start(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", tmpl.Name, err)
	}

	var runID string
	if opts.History != nil {
		if runID, err = opts.History.Start(ctx, item.Name, target, kind); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	var result process.Result
	job.OnExit = func(r process.Result) { result = r }
	if err := process.Stream(h, lineWriter{w: out}, job); err != nil {
		return err
	}

	if runID != "" {
		// the run context may be cancelled by now
		if err := opts.History.Finish(context.Background(), runID, result.ExitCode, result.Lines); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	if result.Err != nil {
		return result.Err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s exited with status %d", tmpl.Name, result.ExitCode)
	}
	return nil
}

// PrintPlaylists writes items as a table, json or yaml
func PrintPlaylists(w io.Writer, items []catalog.Item, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(map[string][]catalog.Item{"playlists": items})
		if err != nil {
			return fmt.Errorf("failed to format YAML: %w", err)
		}
		_, err = w.Write(data)
		return err

	case "", "text", "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tURL")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, it.URL)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q (json/yaml/text)", format)
}

// PrintHistory writes recorded runs with times relative to now
func PrintHistory(w io.Writer, runs []history.Run, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tKIND\tPLAYLIST\tSTATUS\tLINES\tDURATION")
	for _, r := range runs {
		status := "running"
		duration := "-"
		if !r.Running() {
			duration = r.Duration().Round(time.Second).String()
			if r.ExitCode != nil && *r.ExitCode == 0 {
				status = "ok"
			} else if r.ExitCode != nil {
				status = fmt.Sprintf("exit %d", *r.ExitCode)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Kind,
			r.Playlist,
			status,
			humanize.Comma(int64(r.Lines)),
			duration,
		)
	}
	return tw.Flush()
}

// PrintKeys writes the effective bindings of every context followed by
// the validator report
func PrintKeys(w io.Writer, reg *keybinds.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, ctx := range keybinds.Contexts() {
		bindings := reg.ListBindings(ctx)
		if len(bindings) == 0 {
			continue
		}
		fmt.Fprintf(tw, "[%s]\n", ctx)
		for _, b := range bindings {
			fmt.Fprintf(tw, "  %s\t%s\n", b.Keys, b.Action)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	result := keybinds.NewValidator().ValidateRegistry(reg)
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.String())
	if result.HasErrors() {
		return errors.New("keybindings have errors")
	}
	return nil
}
