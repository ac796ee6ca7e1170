// Package scheduler runs a task on a cron schedule.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	preCheckMaxTimes = 3
	preCheckInterval = time.Second * 2
)

// TaskFunc represents a runnable task.
type TaskFunc func() error

// ErrorFunc receives task and precheck errors.
type ErrorFunc func(err error)

type Scheduler struct {
	Task     TaskFunc  // task callback
	PreCheck TaskFunc  // condition check run before each task
	OnError  ErrorFunc // called on task error

	parser cron.Parser

	schedule cron.Schedule
	nextRun  time.Time

	mu      sync.Mutex
	running bool
	// sequential runs the task on the scheduler goroutine instead of a new one.
	sequential bool

	controlCh chan controlMsg
	stopCh    chan struct{}
	doneCh    chan struct{}
}

type controlKind int

const (
	ctrlRecalculate controlKind = iota // timer needs recalculation due to schedule change
	ctrlSkip                           // next run skipped
)

type controlMsg struct {
	kind controlKind
	data any
}

// New returns a stopped scheduler. Call Schedule and then Start.
func New(task, preCheck TaskFunc, onError ErrorFunc) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	return &Scheduler{
		Task:      task,
		PreCheck:  preCheck,
		OnError:   onError,
		parser:    cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		controlCh: make(chan controlMsg, 4),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Sequential makes the scheduler wait for each task before timing the next
// one, so task output never interleaves.
func (s *Scheduler) Sequential() *Scheduler {
	s.sequential = true
	return s
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

// Done is closed once the scheduler goroutine has exited after Stop.
func (s *Scheduler) Done() <-chan struct{} {
	return s.doneCh
}

// Start launches the scheduler goroutine. A stopped scheduler cannot be
// restarted; Start is a no-op after Stop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	select {
	case <-s.stopCh:
		return
	default:
	}
	s.running = true
	go s.runScheduled()
}

// Schedule parses cronExpr (seconds optional, descriptors such as
// "@every 10s" allowed) and makes it the active schedule.
func (s *Scheduler) Schedule(cronExpr string) error {
	sh, err := s.parser.Parse(cronExpr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	running := s.running
	if !running {
		s.schedule = sh
		s.nextRun = sh.Next(time.Now())
	}
	s.mu.Unlock()

	if running {
		s.trySendControl(ctrlRecalculate, sh)
	}
	return nil
}

// Skip skips the next scheduled run.
func (s *Scheduler) Skip() error {
	s.mu.Lock()
	if s.schedule == nil || s.nextRun.IsZero() {
		s.mu.Unlock()
		return fmt.Errorf("no active schedule to skip")
	}
	s.nextRun = s.schedule.Next(s.nextRun)
	running := s.running
	s.mu.Unlock()

	if running {
		s.trySendControl(ctrlSkip, nil)
	}
	return nil
}

func (s *Scheduler) Status() (nextRun time.Time, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextRun = s.nextRun
	running = s.running
	return
}

func (s *Scheduler) runScheduled() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(s.doneCh)
		logrus.Debug("scheduler stopped")
	}()

	logrus.Debug("scheduler started")

	for {
		attempts := 0
		var precheckErr error

		schedule, nextRun := s.snapshot()
		var timer *time.Timer
		if schedule == nil || nextRun.IsZero() {
			timer = time.NewTimer(time.Hour * 10000)
		} else {
			wait := time.Until(nextRun)
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
		}

		for {
			select {
			case <-timer.C:
				if schedule == nil || nextRun.IsZero() {
					break
				}

				logrus.Debugf("running scheduled task at %s", nextRun.Format(time.DateTime))

				if s.PreCheck != nil {
					if err := s.PreCheck(); err != nil {
						if precheckErr == nil || err.Error() != precheckErr.Error() {
							precheckErr = err
							s.sendError(fmt.Errorf("precheck failed: %w", err))
						}

						attempts++
						if attempts <= preCheckMaxTimes {
							logrus.Debugf("precheck failed (%d/%d): %v; retrying in %s", attempts, preCheckMaxTimes, err, preCheckInterval)
							timer.Reset(preCheckInterval)
							continue
						}

						timer.Stop()
						s.advanceNextRun()
						break
					}
				}

				timer.Stop()

				if s.sequential {
					s.runTask()
				} else {
					go s.runTask()
				}
				s.advanceNextRun()
			case <-s.stopCh:
				timer.Stop()
				return
			case msg := <-s.controlCh: // internal control messages
				logrus.WithFields(logrus.Fields{
					"kind": msg.kind,
					"data": msg.data,
				}).Debug("received control msg")

				switch msg.kind {
				case ctrlRecalculate:
					timer.Stop()
					sh := msg.data.(cron.Schedule)
					s.mu.Lock()
					s.schedule = sh
					s.nextRun = sh.Next(time.Now())
					s.mu.Unlock()
				case ctrlSkip:
					timer.Stop()
				}
			}

			break
		}
	}
}

func (s *Scheduler) runTask() {
	if err := s.Task(); err != nil {
		s.sendError(fmt.Errorf("task failed: %w", err))
	}
}

func (s *Scheduler) snapshot() (cron.Schedule, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.nextRun
}

// advanceNextRun moves to the first run after now, so a slow task does not
// cause a burst of catch-up runs.
func (s *Scheduler) advanceNextRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return
	}
	next := s.schedule.Next(s.nextRun)
	if now := time.Now(); next.Before(now) {
		next = s.schedule.Next(now)
	}
	s.nextRun = next
}

func (s *Scheduler) sendError(err error) {
	if s.OnError == nil {
		return
	}

	if s.sequential {
		s.OnError(err)
		return
	}
	go s.OnError(err)
}

func (s *Scheduler) trySendControl(kind controlKind, data any) {
	select {
	case s.controlCh <- controlMsg{kind: kind, data: data}:
	default:
	}
}
