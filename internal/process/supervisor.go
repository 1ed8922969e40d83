package process

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/bus"
)

// ErrBusy is returned when a process already runs for the same key
var ErrBusy = errors.New("an operation is already running for this target")

// Supervisor launches streamed processes, at most one per key.
// Keys are target directories, so two playlists never write to the same
// folder concurrently.
type Supervisor struct {
	runner *Runner
	log    *logrus.Entry

	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

// NewSupervisor creates a supervisor on top of runner
func NewSupervisor(runner *Runner, log *logrus.Entry) *Supervisor {
	return &Supervisor{
		runner: runner,
		log:    log,
		active: make(map[string]struct{}),
	}
}

// Launch spawns cmd and streams its output to s in the background.
// It returns ErrBusy when key is in flight, or the spawn error.
func (sv *Supervisor) Launch(ctx context.Context, key string, cmd Command, s bus.Sender, job Job) error {
	sv.mu.Lock()
	if _, busy := sv.active[key]; busy {
		sv.mu.Unlock()
		return ErrBusy
	}
	sv.active[key] = struct{}{}
	sv.mu.Unlock()

	h, err := sv.runner.Start(ctx, cmd)
	if err != nil {
		sv.release(key)
		return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}
	sv.log.WithField("key", key).WithField("pid", h.Pid()).Debug("launched")

	onExit := job.OnExit
	job.OnExit = func(r Result) {
		sv.release(key)
		if onExit != nil {
			onExit(r)
		}
	}

	sv.wg.Add(1)
	go func() {
		defer sv.wg.Done()
		defer sv.release(key)
		if err := Stream(h, s, job); err != nil {
			sv.log.WithError(err).WithField("key", key).Error("stream aborted")
		}
	}()

	return nil
}

// Busy reports whether key has a process in flight
func (sv *Supervisor) Busy(key string) bool {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	_, ok := sv.active[key]
	return ok
}

// Wait blocks until every launched stream has finished
func (sv *Supervisor) Wait() {
	sv.wg.Wait()
}

func (sv *Supervisor) release(key string) {
	sv.mu.Lock()
	delete(sv.active, key)
	sv.mu.Unlock()
}
