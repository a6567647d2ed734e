package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/resilience"
)

// QueueConfig configures an execution queue.
type QueueConfig struct {
	Size            int
	BreakerFailures int
	BreakerCooldown time.Duration
	Logger          *logging.Logger
	Metrics         *monitoring.Metrics
}

type result struct {
	value any
	err   error
}

type job struct {
	ctx  context.Context
	op   string
	fn   func(ctx context.Context) (any, error)
	done chan result
}

// Queue serializes backend work. Jobs run in submission order on a single
// worker goroutine, so at most one backend execution is ever in flight.
//
// A caller whose deadline expires gets ErrTimeout at once. The worker still
// waits for the running backend call to return before it takes the next
// job, and skips jobs whose deadline passed while they were queued.
type Queue struct {
	jobs    chan *job
	breaker *resilience.Breaker
	logger  *logging.Logger
	metrics *monitoring.Metrics

	closeOnce sync.Once
	closing   chan struct{}
	stopped   chan struct{}
}

// NewQueue starts a queue and its worker.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.Size <= 0 {
		cfg.Size = 64
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	q := &Queue{
		jobs:    make(chan *job, cfg.Size),
		logger:  cfg.Logger.Named("queue"),
		metrics: cfg.Metrics,
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}

	failures := uint32(cfg.BreakerFailures)
	q.breaker = resilience.New("backend", resilience.Settings{
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrUnreachable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			q.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if q.metrics != nil {
				q.metrics.SetBreakerState(int(to))
			}
		},
	})

	go q.run()
	return q
}

// Do submits fn and blocks until it has run or ctx is done. fn receives the
// caller's context and should honour its deadline.
func (q *Queue) Do(ctx context.Context, op string, fn func(ctx context.Context) (any, error)) (any, error) {
	j := &job{ctx: ctx, op: op, fn: fn, done: make(chan result, 1)}

	select {
	case <-q.closing:
		return nil, ErrClosed
	default:
	}

	select {
	case q.jobs <- j:
		q.recordDepth()
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	case <-q.closing:
		return nil, ErrClosed
	}

	select {
	case r := <-j.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	case <-q.stopped:
		select {
		case r := <-j.done:
			return r.value, r.err
		default:
			return nil, ErrClosed
		}
	}
}

// Depth returns the number of jobs waiting to run.
func (q *Queue) Depth() int {
	return len(q.jobs)
}

// BreakerState returns the state of the backend circuit breaker.
func (q *Queue) BreakerState() resilience.State {
	return q.breaker.State()
}

// Close stops accepting work, fails pending jobs with ErrClosed and waits
// for the running job to finish.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closing)
	})
	<-q.stopped
}

func (q *Queue) run() {
	defer close(q.stopped)

	for {
		// Closing wins over queued work.
		select {
		case <-q.closing:
			q.drain()
			return
		default:
		}

		select {
		case <-q.closing:
			q.drain()
			return
		case j := <-q.jobs:
			q.recordDepth()
			q.execute(j)
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case j := <-q.jobs:
			j.done <- result{err: ErrClosed}
		default:
			q.recordDepth()
			return
		}
	}
}

func (q *Queue) execute(j *job) {
	if err := j.ctx.Err(); err != nil {
		q.logger.Debug("skipping expired job", zap.String("op", j.op))
		j.done <- result{err: contextError(err)}
		return
	}

	timer := monitoring.NewTimer(q.metrics, j.op)
	var value any
	err := q.breaker.Execute(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("backend panic: %v", r)
			}
		}()
		value, err = j.fn(j.ctx)
		// A caller that went away says nothing about the backend.
		if err != nil && errors.Is(j.ctx.Err(), context.Canceled) {
			err = context.Canceled
		}
		return err
	})

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		err = Unreachable(err)
	case err != nil && j.ctx.Err() == context.DeadlineExceeded && !errors.Is(err, ErrTimeout):
		err = ErrTimeout
	}

	timer.Stop(outcome(err))
	if err != nil {
		q.logger.Debug("backend execution failed", zap.String("op", j.op), zap.Error(err))
	}
	j.done <- result{value: value, err: err}
}

func (q *Queue) recordDepth() {
	if q.metrics != nil {
		q.metrics.SetQueueDepth(len(q.jobs))
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
