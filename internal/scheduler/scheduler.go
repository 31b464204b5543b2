package scheduler

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrJobRunning is returned when a manual run is requested while another run is in progress
var ErrJobRunning = errors.New("a run is already in progress")

// JobType tells what triggered a run
type JobType int

const (
	JobTypeStartup JobType = iota
	JobTypeDaily
	JobTypeManual
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypeStartup:
		return "startup"
	case JobTypeDaily:
		return "daily"
	case JobTypeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Job is the work executed on each run
type Job func(ctx context.Context) error

// Scheduler runs the job once a day at a fixed hour. Runs never overlap.
type Scheduler struct {
	job          Job
	logger       *logrus.Logger
	hour         int
	runOnStartup bool

	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution

	stateMu   sync.Mutex
	lastDaily time.Time
	lastRun   time.Time
	lastErr   error
}

// NewScheduler creates a scheduler running job daily at hour (0-23). A
// negative hour disables the daily run; manual runs still work.
func NewScheduler(job Job, hour int, runOnStartup bool, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		job:          job,
		logger:       logger,
		hour:         hour,
		runOnStartup: runOnStartup,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.runOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(ctx, JobTypeStartup)
		}()
	}

	s.wg.Add(1)
	go s.runScheduler(ctx)
}

func (s *Scheduler) runScheduler(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(ctx, t)
		}
	}
}

// claimDaily reports whether the daily run should start at t and, if so,
// marks the day as taken so later ticks in the same hour skip it.
func (s *Scheduler) claimDaily(t time.Time) bool {
	if s.hour < 0 || t.Hour() != s.hour {
		return false
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	y1, m1, d1 := t.Date()
	y2, m2, d2 := s.lastDaily.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return false
	}
	s.lastDaily = t
	return true
}

func (s *Scheduler) executeScheduledJobs(ctx context.Context, t time.Time) {
	s.logger.WithFields(logrus.Fields{
		"hour":   t.Hour(),
		"minute": t.Minute(),
	}).Debug("Checking scheduled jobs")

	if s.claimDaily(t) {
		s.run(ctx, JobTypeDaily)
	}
}

// RunNow executes the job immediately unless a run is already in progress
func (s *Scheduler) RunNow(ctx context.Context) error {
	if !s.jobMutex.TryLock() {
		return ErrJobRunning
	}
	defer s.jobMutex.Unlock()
	return s.execute(ctx, JobTypeManual)
}

func (s *Scheduler) run(ctx context.Context, jobType JobType) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()
	s.execute(ctx, jobType)
}

func (s *Scheduler) execute(ctx context.Context, jobType JobType) error {
	s.logger.WithField("job_type", jobType.String()).Info("Starting job")

	err := s.job(ctx)

	s.stateMu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.stateMu.Unlock()

	if err != nil {
		s.logger.WithError(err).WithField("job_type", jobType.String()).Error("Job failed")
		return err
	}
	s.logger.WithField("job_type", jobType.String()).Info("Job completed successfully")
	return nil
}

// LastRun returns when the job last finished and its error, zero before the first run
func (s *Scheduler) LastRun() (time.Time, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastRun, s.lastErr
}

// Stop gracefully stops the scheduler, cancelling a run in progress
func (s *Scheduler) Stop() {
	close(s.stopChan)
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
