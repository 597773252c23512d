// Package writequeue serializes all database mutations through a single
// worker goroutine. Readers keep hitting the store directly; writers hand
// their work to the queue and receive a job id they can correlate with
// the queue status endpoint.
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/logging"
)

// Job is a unit of mutation work. It runs on the worker goroutine and
// must not be retained after it returns.
type Job func(ctx context.Context) error

// Handle identifies an accepted job.
type Handle struct {
	ID string `json:"job_id"`
}

// FailedJob is a record of a job that exhausted its retries.
// Attempts counts how many times the job actually ran, so it is
// always at least one.
type FailedJob struct {
	JobID      string    `json:"job_id"`
	Err        string    `json:"error"`
	FailedAt   time.Time `json:"failed_at"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Stats is a point-in-time snapshot of queue state.
type Stats struct {
	Pending      int         `json:"pending"`
	Processed    uint64      `json:"processed"`
	Failed       uint64      `json:"failed"`
	RecentErrors []FailedJob `json:"recent_errors"`
}

const maxAttempts = 3

// retryBaseGap is the pause before the first retry; subsequent retries
// wait a growing multiple of it. Variable so tests can shrink it.
var retryBaseGap = 500 * time.Millisecond

var ErrQueueClosed = errors.New("write queue is closed")

type queued struct {
	id         string
	job        Job
	enqueuedAt time.Time
}

// Queue runs jobs one at a time in submission order. Transient store
// contention (see dbx.IsBusy) is retried with a growing pause before
// the job is declared failed.
type Queue struct {
	logger logging.Logger

	jobs chan queued

	// senders tracks Enqueue calls that passed the closed check but have
	// not finished sending yet. Drain waits for it before closing jobs.
	senders sync.WaitGroup

	mu        sync.Mutex
	pending   int
	processed uint64
	failed    uint64
	errLog    []FailedJob
	errLogCap int
	closed    bool

	done chan struct{}
}

// New returns a stopped queue. errLogCap bounds the recent-errors list;
// older entries are evicted first.
func New(logger logging.Logger, errLogCap int) *Queue {
	if errLogCap <= 0 {
		errLogCap = 1
	}
	return &Queue{
		logger:    logger,
		jobs:      make(chan queued, 256),
		errLogCap: errLogCap,
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine. Cancelling ctx does not abort
// accepted jobs: the submitter was already told "accepted", so every
// job runs to completion and only Drain or Stop ends the worker.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

// Enqueue accepts a job for asynchronous execution and returns
// immediately. The returned handle carries the job id.
func (q *Queue) Enqueue(job Job) (Handle, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return Handle{}, ErrQueueClosed
	}
	q.pending++
	q.senders.Add(1)
	q.mu.Unlock()

	item := queued{id: uuid.NewString(), job: job, enqueuedAt: time.Now().UTC()}
	q.jobs <- item
	q.senders.Done()
	return Handle{ID: item.id}, nil
}

// Drain stops accepting new jobs and blocks until every accepted job
// has finished.
func (q *Queue) Drain() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	// Every Enqueue that won the race against closed registered itself
	// under the same lock, so after Wait no send can hit a closed channel.
	q.senders.Wait()
	close(q.jobs)
	<-q.done
}

// Stop is an alias for Drain kept for symmetry with other lifecycle
// components.
func (q *Queue) Stop() {
	q.Drain()
}

// Stats returns a snapshot of the queue counters and the recent
// failure log, newest last.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := Stats{
		Pending:      q.pending,
		Processed:    q.processed,
		Failed:       q.failed,
		RecentErrors: make([]FailedJob, len(q.errLog)),
	}
	copy(out.RecentErrors, q.errLog)
	return out
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)
	// Jobs outlive the caller's context. Shutdown cancels the server
	// context before Drain, and a cancelled context must not turn
	// already accepted work into failures.
	jobCtx := context.WithoutCancel(ctx)
	for item := range q.jobs {
		q.process(jobCtx, item)
	}
}

func (q *Queue) process(ctx context.Context, item queued) {
	attempts := 0
	backoff := retry.WithMaxRetries(maxAttempts-1, linearBackoff(retryBaseGap))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := item.job(ctx)
		if err != nil && dbx.IsBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})

	q.mu.Lock()
	q.pending--
	if err != nil {
		q.failed++
		q.errLog = append(q.errLog, FailedJob{
			JobID:      item.id,
			Err:        err.Error(),
			FailedAt:   time.Now().UTC(),
			Attempts:   attempts,
			EnqueuedAt: item.enqueuedAt,
		})
		if len(q.errLog) > q.errLogCap {
			q.errLog = q.errLog[len(q.errLog)-q.errLogCap:]
		}
	} else {
		q.processed++
	}
	q.mu.Unlock()

	if err != nil {
		q.logger.Error(ctx, "write job failed", "job_id", item.id, "attempts", attempts, "error", err)
	}
}

// linearBackoff pauses base, 2*base, 3*base between attempts.
func linearBackoff(base time.Duration) retry.Backoff {
	var n int64
	var mu sync.Mutex
	return retry.BackoffFunc(func() (time.Duration, bool) {
		mu.Lock()
		n++
		d := time.Duration(n) * base
		mu.Unlock()
		return d, false
	})
}
