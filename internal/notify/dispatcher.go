// Package notify runs best-effort side effects (email, git push) on a
// background worker so callers never wait for them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// Options tunes a Dispatcher.
type Options struct {
	QueueSize       int
	MaxAttempts     int
	InitialInterval time.Duration
}

// Dispatcher runs queued jobs one at a time on a single worker goroutine.
// A failed job is retried with exponential backoff; its final outcome is
// only ever logged.
type Dispatcher struct {
	queue  chan scs.Job
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	logger scs.Logger

	maxAttempts     uint
	initialInterval time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the worker. Zero options fall back to a queue of 16,
// 3 attempts and a 500ms first retry delay.
func NewDispatcher(opts Options, logger scs.Logger) *Dispatcher {
	if logger == nil {
		logger = scs.NewNopLogger()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		queue:           make(chan scs.Job, opts.QueueSize),
		done:            make(chan struct{}),
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger,
		maxAttempts:     uint(opts.MaxAttempts),
		initialInterval: opts.InitialInterval,
	}
	go d.work()
	return d
}

// NewDispatcherFromConfig creates a Dispatcher from the [notify] section.
func NewDispatcherFromConfig(cfg config.NotifyConfig, logger scs.Logger) *Dispatcher {
	return NewDispatcher(Options{
		QueueSize:       cfg.QueueSize,
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: cfg.InitialInterval.Duration,
	}, logger)
}

// Enqueue hands job to the worker. It never blocks: when the queue is full
// or the dispatcher is closed the job is dropped and logged.
func (d *Dispatcher) Enqueue(job scs.Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Error("dispatcher closed, dropping job", "job", job.Name)
		return
	}
	select {
	case d.queue <- job:
	default:
		d.logger.Error("notification queue full, dropping job", "job", job.Name)
	}
}

// Close stops accepting jobs and waits until queued jobs have run or ctx
// ends. When ctx ends first, jobs still retrying are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		return fmt.Errorf("waiting for pending jobs: %w", ctx.Err())
	}
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for job := range d.queue {
		d.run(job)
	}
}

func (d *Dispatcher) run(job scs.Job) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialInterval

	attempts := 0
	_, err := backoff.Retry(d.ctx, func() (struct{}, error) {
		attempts++
		return struct{}{}, d.safeRun(job)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(d.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			d.logger.Warn("job attempt failed", "job", job.Name, "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		d.logger.Error("job failed", "job", job.Name, "attempts", attempts, "error", err)
		return
	}
	d.logger.Info("job succeeded", "job", job.Name, "attempts", attempts)
}

// errPanicked marks a job that panicked. Such jobs are not retried.
var errPanicked = errors.New("job panicked")

func (d *Dispatcher) safeRun(job scs.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked",
				"job", job.Name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = backoff.Permanent(fmt.Errorf("%w: %v", errPanicked, r))
		}
	}()
	return job.Run(d.ctx)
}

// Compile-time check that Dispatcher implements scs.Notifier interface
var _ scs.Notifier = (*Dispatcher)(nil)
