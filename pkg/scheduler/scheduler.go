package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

const (
	SubSystem = "Scheduler" // For logger

	// DefaultPollInterval is how often jobs are checked for readiness.
	DefaultPollInterval = 500 * time.Millisecond
)

var (
	NotFound = errors.New("Job not found")
)

// Scheduler provides the ability to schedule tasks to run at when they are ready.
type Scheduler struct {
	PollInterval time.Duration

	jobs     []Job
	lock     sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Job provides an interface that tells Scheduler when and how to run the job.
type Job interface {
	// IsReady returns true when a job should be executed.
	IsReady(ctx context.Context) bool

	// Run executes the job.
	Run(ctx context.Context)

	// IsComplete returns true when a job should be removed from the scheduler.
	IsComplete(ctx context.Context) bool

	// Equal returns true if another job matches it. Used to cancel jobs.
	Equal(other Job) bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		PollInterval: DefaultPollInterval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// ScheduleJob adds a job to the scheduler.
func (sch *Scheduler) ScheduleJob(ctx context.Context, job Job) error {
	sch.lock.Lock()
	defer sch.lock.Unlock()
	sch.jobs = append(sch.jobs, job)
	return nil
}

// CancelJob removes a job from the scheduler. The job passed in just needs to be equivalent based
//   on the job's Equal function.
func (sch *Scheduler) CancelJob(ctx context.Context, job Job) error {
	sch.lock.Lock()
	defer sch.lock.Unlock()
	for i, existing := range sch.jobs {
		if existing.Equal(job) {
			sch.jobs = append(sch.jobs[:i], sch.jobs[i+1:]...)
			return nil
		}
	}
	return NotFound
}

// Run monitors jobs and runs them when they are ready. It returns when Stop
// is called or ctx is done.
func (sch *Scheduler) Run(ctx context.Context) error {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)
	defer close(sch.done)

	ticker := time.NewTicker(sch.PollInterval)
	defer ticker.Stop()

	for {
		sch.runReady(ctx)

		select {
		case <-sch.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runReady runs each ready job once and drops completed jobs.
func (sch *Scheduler) runReady(ctx context.Context) {
	sch.lock.Lock()
	jobs := append([]Job(nil), sch.jobs...)
	sch.lock.Unlock()

	for _, job := range jobs {
		if !job.IsReady(ctx) {
			continue
		}

		job.Run(ctx)

		if job.IsComplete(ctx) {
			if err := sch.CancelJob(ctx, job); err != nil && err != NotFound {
				logger.Warn(ctx, "Failed to remove complete job : %s", err)
			}
		}
	}
}

// Stop requests Run finish and waits for it to finish.
func (sch *Scheduler) Stop(ctx context.Context) error {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)
	sch.stopOnce.Do(func() { close(sch.stop) })

	for {
		select {
		case <-sch.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
			logger.Info(ctx, "Waiting for scheduler to stop")
		}
	}
}
