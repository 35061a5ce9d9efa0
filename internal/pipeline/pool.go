package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/snarg/wordmute/internal/metrics"
)

// Stats reports the current state of the processing queue.
type Stats struct {
	Pending   int   `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Runner owns the job queue and worker goroutines. Per-job processing is
// the single synchronous pipeline in Run; the pool only parallelizes
// across files.
type Runner struct {
	jobs   chan Job
	opts   Options
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders Enqueue against the queue close in Stop; a late producer
	// gets false back instead of a send on a closed channel.
	mu     sync.Mutex
	closed bool

	completed atomic.Int64
	failed    atomic.Int64
}

// NewRunner creates a runner with its worker pool unstarted. Cancelling
// parent aborts in-flight jobs.
func NewRunner(parent context.Context, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	ctx, cancel := context.WithCancel(parent)
	return &Runner{
		jobs:   make(chan Job, opts.QueueSize),
		opts:   opts,
		log:    opts.Log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.opts.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.log.Info().Int("workers", r.opts.Workers).Int("queue_size", r.opts.QueueSize).Msg("worker pool started")
}

// Stop closes the queue, waits for in-flight jobs to drain, then cancels
// the pool context.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()
	r.wg.Wait()
	r.cancel()
	r.log.Info().
		Int64("completed", r.completed.Load()).
		Int64("failed", r.failed.Load()).
		Msg("worker pool stopped")
}

// Enqueue adds a job to the queue. Returns false if the queue is full
// or the runner has been stopped.
func (r *Runner) Enqueue(j Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.jobs <- j:
		return true
	default:
		return false
	}
}

// Stats returns current queue statistics.
func (r *Runner) Stats() Stats {
	return Stats{
		Pending:   len(r.jobs),
		Completed: r.completed.Load(),
		Failed:    r.failed.Load(),
	}
}

// Workers returns the number of worker goroutines.
func (r *Runner) Workers() int { return r.opts.Workers }

func (r *Runner) worker(id int) {
	defer r.wg.Done()
	log := r.log.With().Int("worker", id).Logger()

	for job := range r.jobs {
		ctx := r.ctx
		var cancel context.CancelFunc = func() {}
		if r.opts.RunTimeout > 0 {
			ctx, cancel = context.WithTimeout(r.ctx, r.opts.RunTimeout)
		}

		if _, err := r.Run(ctx, job); err != nil {
			r.failed.Add(1)
			metrics.VideosFailedTotal.WithLabelValues(string(KindOf(err))).Inc()
			log.Warn().Err(err).
				Str("input", job.Input).
				Str("kind", string(KindOf(err))).
				Msg("run failed")
		} else {
			r.completed.Add(1)
		}
		cancel()
	}
}
