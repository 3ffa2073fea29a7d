// Package scheduling runs periodic maintenance jobs such as the patient
// status sweep.
package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidInterval = errors.New("job interval must be positive")

// Job is one unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Runner drives jobs on their own tickers until the context is cancelled.
type Runner struct {
	logger zerolog.Logger
	now    func() time.Time
	jobs   []Job
	wg     sync.WaitGroup
}

func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger, now: time.Now}
}

// Add registers a job. It must be called before Start.
func (r *Runner) Add(job Job) error {
	if job.Interval <= 0 {
		return ErrInvalidInterval
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Start launches one goroutine per job and returns immediately.
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
}

// Wait blocks until every job loop has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.logger.Info().Str("job", job.Name).Dur("interval", job.Interval).Msg("job scheduled")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx, job)
		}
	}
}

// RunOnce executes a job immediately and logs the outcome.
func (r *Runner) RunOnce(ctx context.Context, job Job) {
	start := r.now()
	err := job.Run(ctx, start)

	var evt *zerolog.Event
	if err != nil {
		evt = r.logger.Error().Err(err)
	} else {
		evt = r.logger.Info()
	}
	evt.Str("job", job.Name).Dur("took", time.Since(start)).Msg("job run")
}
