package scheduler

import (
	"context"
	"sync"
	"time"
)

type PeriodicProcessInterface interface {
	Run(context.Context)
}

// ProcessFunc adapts a function to PeriodicProcessInterface.
type ProcessFunc func(context.Context)

func (f ProcessFunc) Run(ctx context.Context) {
	f(ctx)
}

// PeriodicProcess is a Scheduler job that runs a process at a specified frequency.
type PeriodicProcess struct {
	name      string
	process   PeriodicProcessInterface
	frequency time.Duration

	lock sync.Mutex
	next time.Time
}

// NewPeriodicProcess returns a job first ready after one period.
func NewPeriodicProcess(name string, process PeriodicProcessInterface,
	frequency time.Duration) *PeriodicProcess {

	return &PeriodicProcess{
		name:      name,
		process:   process,
		frequency: frequency,
		next:      time.Now().Add(frequency),
	}
}

// IsReady returns true when a job should be executed.
func (pp *PeriodicProcess) IsReady(ctx context.Context) bool {
	pp.lock.Lock()
	defer pp.lock.Unlock()
	return !time.Now().Before(pp.next)
}

// Run executes the job.
func (pp *PeriodicProcess) Run(ctx context.Context) {
	// Schedule next time
	pp.lock.Lock()
	pp.next = time.Now().Add(pp.frequency)
	pp.lock.Unlock()

	pp.process.Run(ctx)
}

// IsComplete returns true when a job should be removed from the scheduler.
func (pp *PeriodicProcess) IsComplete(ctx context.Context) bool {
	return false
}

// Equal returns true if another job matches it. Used to cancel jobs.
func (pp *PeriodicProcess) Equal(other Job) bool {
	otherPP, ok := other.(*PeriodicProcess)
	if !ok {
		return false
	}
	return pp.name == otherPP.name
}
