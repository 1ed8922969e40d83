package component

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/bus"
	"github.com/studiowebux/spotui/internal/process"
)

// Run kinds recorded in the history
const (
	RunDownload  = "download"
	RunSync      = "sync"
	RunArchive   = "archive"
	RunUnarchive = "unarchive"
)

// launcher starts supervised runs and records them
type launcher struct {
	ctx        context.Context
	supervisor *process.Supervisor
	history    RunRecorder
	log        *logrus.Entry
}

type run struct {
	kind   string
	name   string // playlist or archive entry
	key    string // single-flight key, the target path
	cmd    process.Command
	intro  string
	outro  string
	sender bus.Sender
}

func (l *launcher) launch(r run) error {
	if l.supervisor == nil {
		return errors.New("no process supervisor configured")
	}

	log := l.log.WithFields(logrus.Fields{"kind": r.kind, "target": r.key})

	var runID string
	if l.history != nil {
		id, err := l.history.Start(l.ctx, r.name, r.key, r.kind)
		if err != nil {
			log.WithError(err).Warn("failed to record run start")
		}
		runID = id
	}

	job := process.Job{
		Intro: r.intro,
		Outro: r.outro,
		OnExit: func(res process.Result) {
			entry := log.WithFields(logrus.Fields{
				"exit_code": res.ExitCode,
				"lines":     res.Lines,
				"duration":  res.Duration.String(),
			})
			if res.ExitCode != 0 || res.Err != nil {
				entry.WithError(res.Err).Warn("run failed")
			} else {
				entry.Info("run finished")
			}
			if l.history == nil || runID == "" {
				return
			}
			if err := l.history.Finish(l.ctx, runID, res.ExitCode, res.Lines); err != nil {
				log.WithError(err).Warn("failed to record run finish")
			}
		},
	}

	if err := l.supervisor.Launch(l.ctx, r.key, r.cmd, r.sender, job); err != nil {
		if l.history != nil && runID != "" {
			_ = l.history.Finish(l.ctx, runID, -1, 0)
		}
		return err
	}

	log.WithField("command", r.cmd.String()).Info("run started")
	return nil
}

// failRun reports a run that never started. The failure is shown as an
// error and the Downloading screen is released.
func failRun(sender bus.Sender, msg string, err error) (action.Action, bool, error) {
	if sender != nil {
		if sendErr := sender.Send(action.DownloadFinished()); sendErr != nil {
			return action.Action{}, false, sendErr
		}
	}
	if errors.Is(err, process.ErrBusy) {
		return follow(action.Errorf("%s: already running", msg))
	}
	return follow(action.Errorf("%s: %v", msg, err))
}
