package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/spotui/internal/migrations"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "spotui.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// clock returns a time source advancing one second per call
func clock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func TestStartAndFinish(t *testing.T) {
	s := openTestStore(t)
	s.now = clock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	ctx := context.Background()

	id, err := s.Start(ctx, "Chill Mix", "/music/ChillMix", "download")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if id == "" {
		t.Fatal("Start() returned empty id")
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if !runs[0].Running() {
		t.Error("run should be running before Finish")
	}
	if runs[0].ExitCode != nil {
		t.Errorf("ExitCode = %v, want nil", *runs[0].ExitCode)
	}

	if err := s.Finish(ctx, id, 0, 42); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	runs, err = s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	r := runs[0]
	if r.Running() {
		t.Error("run should be finished")
	}
	if r.ExitCode == nil || *r.ExitCode != 0 {
		t.Errorf("ExitCode = %v, want 0", r.ExitCode)
	}
	if r.Lines != 42 {
		t.Errorf("Lines = %d, want 42", r.Lines)
	}
	if r.Playlist != "Chill Mix" || r.TargetDir != "/music/ChillMix" || r.Kind != "download" {
		t.Errorf("unexpected run %+v", r)
	}
	if got := r.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
	if !r.StartedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", r.StartedAt)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	s := openTestStore(t)
	if err := s.Finish(context.Background(), "missing", 1, 0); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	s.now = clock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.Start(ctx, name, "/music/"+name, "sync"); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Playlist != "c" || runs[1].Playlist != "b" {
		t.Errorf("order = %s,%s want c,b", runs[0].Playlist, runs[1].Playlist)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotui.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(context.Background(), "p", "/d", "download"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestMigrationsApplied(t *testing.T) {
	s := openTestStore(t)

	version, err := migrations.GetCurrentVersion(s.db)
	if err != nil {
		t.Fatal(err)
	}
	want := migrations.AllMigrations[len(migrations.AllMigrations)-1].Version
	if version != want {
		t.Errorf("version = %d, want %d", version, want)
	}

	// running again is a no-op
	if err := migrations.Run(s.db); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_runs_target'").Scan(&name)
	if err == sql.ErrNoRows {
		t.Fatal("idx_runs_target missing")
	}
	if err != nil {
		t.Fatal(err)
	}
}
