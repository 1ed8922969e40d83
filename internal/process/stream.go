package process

import (
	"time"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
)

// Result summarises a finished run
type Result struct {
	ExitCode int
	Lines    int
	Duration time.Duration
	Err      error // wait failure, not the exit status
}

// Job decorates a stream with banner lines and an exit hook
type Job struct {
	Intro  string       // sent before the first output line
	Outro  string       // sent after the last output line
	OnExit func(Result) // called before DownloadFinished is sent
}

// Stream forwards every output line of h as Downloading(line), then exactly
// one DownloadFinished. The exit status does not change what is sent.
//
// If the bus refuses an action the consumer is gone: the process is killed
// and the send error returned.
func Stream(h *Handle, s bus.Sender, job Job) error {
	start := time.Now()

	if job.Intro != "" {
		if err := s.Send(action.Downloading(job.Intro)); err != nil {
			return abort(h, err)
		}
	}

	lines := 0
	for line := range h.Lines() {
		if err := s.Send(action.Downloading(line)); err != nil {
			return abort(h, err)
		}
		lines++
	}

	code, waitErr := h.Wait()
	entry := h.log.WithField("exit_code", code).WithField("lines", lines)
	if code != 0 {
		entry.Warn("process exited with non-zero status")
	} else {
		entry.Info("process finished")
	}

	if job.Outro != "" {
		if err := s.Send(action.Downloading(job.Outro)); err != nil {
			return abort(h, err)
		}
	}

	if job.OnExit != nil {
		job.OnExit(Result{ExitCode: code, Lines: lines, Duration: time.Since(start), Err: waitErr})
	}

	return s.Send(action.DownloadFinished())
}

func abort(h *Handle, err error) error {
	h.Kill()
	h.Wait()
	return err
}
