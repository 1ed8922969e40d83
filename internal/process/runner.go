package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// maxLineSize bounds a single output line; longer lines end the stream
	maxLineSize = 1024 * 1024
)

// Command describes one external invocation
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Expand builds a command from a template, replacing {key} placeholders in
// every argument with the matching value from vars
func Expand(name string, args []string, dir string, vars map[string]string) Command {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)

	expanded := make([]string, len(args))
	for i, a := range args {
		expanded[i] = r.Replace(a)
	}
	return Command{Name: name, Args: expanded, Dir: dir}
}

// Runner spawns external commands with their standard output captured
type Runner struct {
	log *logrus.Entry
}

// NewRunner creates a runner logging to log
func NewRunner(log *logrus.Entry) *Runner {
	return &Runner{log: log}
}

// Start spawns cmd. The child is killed if ctx is cancelled.
// Spawn failures are returned immediately.
func (r *Runner) Start(ctx context.Context, c Command) (*Handle, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to capture stdout: %w", err)
	}

	log := r.log.WithField("cmd", c.String())
	stderr := log.WriterLevel(logrus.DebugLevel)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		stderr.Close()
		return nil, err
	}

	log.WithField("pid", cmd.Process.Pid).Info("process started")
	return &Handle{cmd: cmd, stdout: stdout, stderr: stderr, log: log}, nil
}

// Handle owns one running process and its stdout stream
type Handle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.Closer
	log    *logrus.Entry

	waitOnce sync.Once
	exitCode int
	waitErr  error
}

// Lines yields stdout one line at a time, in order. The sequence ends when
// the stream closes or on a read error; read errors are not reported.
func (h *Handle) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		// Closing the read end lets a writer blocked on a full pipe exit
		defer h.stdout.Close()

		sc := bufio.NewScanner(h.stdout)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			if !yield(strings.TrimRight(sc.Text(), "\r")) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			h.log.WithError(err).Debug("output stream truncated")
		}
	}
}

// Kill terminates the process
func (h *Handle) Kill() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Kill()
}

// Wait reaps the process and returns its exit code.
// A process that could not be waited on reports -1.
func (h *Handle) Wait() (int, error) {
	h.waitOnce.Do(func() {
		err := h.cmd.Wait()
		h.stderr.Close()

		var exitErr *exec.ExitError
		switch {
		case err == nil:
			h.exitCode = 0
		case errors.As(err, &exitErr):
			h.exitCode = exitErr.ExitCode()
		default:
			h.exitCode = -1
			h.waitErr = err
		}
	})
	return h.exitCode, h.waitErr
}

// Pid returns the process id
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}
