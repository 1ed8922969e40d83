package process

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func shell(script string) Command {
	return Command{Name: "/bin/sh", Args: []string{"-c", script}}
}

// recorder collects actions sent by a worker
type recorder struct {
	mu      sync.Mutex
	actions []action.Action
	failAt  int
}

func (r *recorder) Send(a action.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt > 0 && len(r.actions) >= r.failAt {
		return bus.ErrClosed
	}
	r.actions = append(r.actions, a)
	return nil
}

func (r *recorder) snapshot() []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]action.Action(nil), r.actions...)
}

func TestStreamForwardsLinesThenFinished(t *testing.T) {
	runner := NewRunner(testLogger())
	h, err := runner.Start(context.Background(), shell(`echo "Fetching…"; echo Done`))
	require.NoError(t, err)
	assert.Positive(t, h.Pid())

	b := bus.New()
	var result Result
	require.NoError(t, Stream(h, b, Job{OnExit: func(r Result) { result = r }}))

	var got []action.Action
	for {
		a, ok := b.TryReceive()
		if !ok {
			break
		}
		got = append(got, a)
	}

	want := []action.Action{
		action.Downloading("Fetching…"),
		action.Downloading("Done"),
		action.DownloadFinished(),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "action %d: got %v want %v", i, got[i], want[i])
	}
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 2, result.Lines)
}

func TestStreamBannersAndExitStatus(t *testing.T) {
	runner := NewRunner(testLogger())
	h, err := runner.Start(context.Background(), shell(`echo working; exit 3`))
	require.NoError(t, err)

	rec := &recorder{}
	var result Result
	require.NoError(t, Stream(h, rec, Job{
		Intro:  "Download started...",
		Outro:  "Download finished!",
		OnExit: func(r Result) { result = r },
	}))

	got := rec.snapshot()
	require.Len(t, got, 4)
	assert.True(t, got[0].Equal(action.Downloading("Download started...")))
	assert.True(t, got[1].Equal(action.Downloading("working")))
	assert.True(t, got[2].Equal(action.Downloading("Download finished!")))
	// Non-zero exit is still reported as a finished download
	assert.True(t, got[3].Equal(action.DownloadFinished()))
	assert.Equal(t, 3, result.ExitCode)
}

func TestStreamTruncatesOnReadError(t *testing.T) {
	runner := NewRunner(testLogger())
	script := `printf 'before\n'; head -c 2000000 /dev/zero | tr '\0' a; printf '\nafter\n'`
	h, err := runner.Start(context.Background(), shell(script))
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, Stream(h, rec, Job{}))

	got := rec.snapshot()
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(action.Downloading("before")))
	assert.True(t, got[1].Equal(action.DownloadFinished()))
}

func TestStreamStopsWhenBusCloses(t *testing.T) {
	runner := NewRunner(testLogger())
	h, err := runner.Start(context.Background(), shell(`while true; do echo tick; done`))
	require.NoError(t, err)

	rec := &recorder{failAt: 5}
	done := make(chan error, 1)
	go func() { done <- Stream(h, rec, Job{}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, bus.ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after the bus closed")
	}
	assert.Len(t, rec.snapshot(), 5)
}

func TestStartSpawnError(t *testing.T) {
	runner := NewRunner(testLogger())
	_, err := runner.Start(context.Background(), Command{Name: "spotui-definitely-missing-binary"})
	assert.Error(t, err)
}

func TestSupervisorSingleFlight(t *testing.T) {
	sv := NewSupervisor(NewRunner(testLogger()), testLogger())
	rec := &recorder{}

	exited := make(chan struct{})
	dir := t.TempDir()

	cmd := shell(`sleep 0.3; echo ok`)
	cmd.Dir = dir

	require.NoError(t, sv.Launch(context.Background(), dir, cmd, rec, Job{
		OnExit: func(Result) { close(exited) },
	}))
	assert.True(t, sv.Busy(dir))

	err := sv.Launch(context.Background(), dir, cmd, rec, Job{})
	assert.True(t, errors.Is(err, ErrBusy))

	// A different key is not blocked
	other := t.TempDir()
	cmd2 := shell(`echo other`)
	cmd2.Dir = other
	require.NoError(t, sv.Launch(context.Background(), other, cmd2, rec, Job{}))

	<-exited
	sv.Wait()
	assert.False(t, sv.Busy(dir))

	finished := 0
	for _, a := range rec.snapshot() {
		if a.Is(action.KindDownloadFinished) {
			finished++
		}
	}
	assert.Equal(t, 2, finished)
}

func TestSupervisorSpawnErrorReleasesKey(t *testing.T) {
	sv := NewSupervisor(NewRunner(testLogger()), testLogger())
	err := sv.Launch(context.Background(), "k", Command{Name: "spotui-definitely-missing-binary"}, &recorder{}, Job{})
	require.Error(t, err)
	assert.False(t, sv.Busy("k"))
}

func TestExpand(t *testing.T) {
	cmd := Expand("spotdl",
		[]string{"sync", "{url}", "--save-file", "{save_file}"},
		"/music/Chill",
		map[string]string{"url": "https://open.spotify.com/playlist/1", "save_file": "save.spotdl"},
	)

	assert.Equal(t, "spotdl", cmd.Name)
	assert.Equal(t, []string{"sync", "https://open.spotify.com/playlist/1", "--save-file", "save.spotdl"}, cmd.Args)
	assert.Equal(t, "/music/Chill", cmd.Dir)
	assert.Equal(t, "spotdl sync https://open.spotify.com/playlist/1 --save-file save.spotdl", cmd.String())
}
