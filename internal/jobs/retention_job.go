package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"emailbuilder/internal/worker"
)

// Sweeper removes assets older than a given age.
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// RetentionJob deletes uploaded assets that outlived the retention age.
type RetentionJob struct {
	JobID   string
	Sweeper Sweeper
	MaxAge  time.Duration
	Logger  *logrus.Logger
}

// ID returns the unique identifier of the job.
func (j *RetentionJob) ID() string {
	return j.JobID
}

// Execute runs one sweep.
func (j *RetentionJob) Execute(ctx context.Context) error {
	removed, err := j.Sweeper.Sweep(ctx, j.MaxAge)
	if err != nil {
		return err
	}
	j.Logger.WithFields(logrus.Fields{
		"removed": removed,
		"max_age": j.MaxAge.String(),
	}).Info("Asset retention sweep finished")
	return nil
}

// RetentionScheduler periodically submits a RetentionJob to a dispatcher.
type RetentionScheduler struct {
	dispatcher *worker.Dispatcher
	sweeper    Sweeper
	maxAge     time.Duration
	interval   time.Duration
	logger     *logrus.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewRetentionScheduler returns a scheduler sweeping assets older than
// maxAge every interval.
func NewRetentionScheduler(d *worker.Dispatcher, sweeper Sweeper, maxAge, interval time.Duration, logger *logrus.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		dispatcher: d,
		sweeper:    sweeper,
		maxAge:     maxAge,
		interval:   interval,
		logger:     logger,
	}
}

// Start schedules the first sweep one interval from now.
func (s *RetentionScheduler) Start() {
	s.schedule()
}

func (s *RetentionScheduler) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		// schedule next run
		defer s.schedule()
		s.submit()
	})
}

func (s *RetentionScheduler) submit() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	job := &RetentionJob{
		JobID:   "retention:" + time.Now().UTC().Format(time.RFC3339),
		Sweeper: s.sweeper,
		MaxAge:  s.maxAge,
		Logger:  s.logger,
	}
	s.mu.Unlock()

	if err := s.dispatcher.SubmitJob(job); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Could not submit retention sweep")
	}
}

// Stop cancels any pending sweep.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
