package writequeue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/carcare/internal/logging"
)

func newTestQueue(errLogCap int) *Queue {
	retryBaseGap = time.Millisecond
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(l, errLogCap)
}

// busyError mimics a locked-store failure as recognized by dbx.IsBusy.
type busyError struct{}

func (busyError) Error() string { return "database is locked (5) (SQLITE_BUSY)" }

func TestQueue_RunsJobsInSubmissionOrder(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		_, err := q.Enqueue(func(ctx context.Context) error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}

	q.Drain()

	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, want, got)

	st := q.Stats()
	assert.Equal(t, 0, st.Pending)
	assert.Equal(t, uint64(10), st.Processed)
	assert.Equal(t, uint64(0), st.Failed)
}

func TestQueue_NoLostUpdate(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	// Two writers racing on the same value. Serialization means the
	// second job always observes the first one's result.
	value := 0
	_, err := q.Enqueue(func(ctx context.Context) error {
		value = 1
		return nil
	})
	require.NoError(t, err)
	_, err = q.Enqueue(func(ctx context.Context) error {
		if value != 1 {
			return fmt.Errorf("saw stale value %d", value)
		}
		value = 2
		return nil
	})
	require.NoError(t, err)

	q.Drain()

	assert.Equal(t, 2, value)
	assert.Equal(t, uint64(2), q.Stats().Processed)
}

func TestQueue_RetriesBusyThenSucceeds(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	calls := 0
	_, err := q.Enqueue(func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return busyError{}
		}
		return nil
	})
	require.NoError(t, err)

	q.Drain()

	assert.Equal(t, 3, calls)
	st := q.Stats()
	assert.Equal(t, uint64(1), st.Processed)
	assert.Equal(t, uint64(0), st.Failed)
	assert.Empty(t, st.RecentErrors)
}

func TestQueue_GivesUpAfterMaxAttempts(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	calls := 0
	h, err := q.Enqueue(func(ctx context.Context) error {
		calls++
		return busyError{}
	})
	require.NoError(t, err)

	q.Drain()

	assert.Equal(t, maxAttempts, calls)
	st := q.Stats()
	assert.Equal(t, uint64(1), st.Failed)
	require.Len(t, st.RecentErrors, 1)
	assert.Equal(t, h.ID, st.RecentErrors[0].JobID)
	assert.Equal(t, maxAttempts, st.RecentErrors[0].Attempts)
}

func TestQueue_NonBusyErrorFailsWithoutRetry(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	calls := 0
	_, err := q.Enqueue(func(ctx context.Context) error {
		calls++
		return errors.New("constraint violated")
	})
	require.NoError(t, err)

	q.Drain()

	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), q.Stats().Failed)
}

func TestQueue_ErrorLogEviction(t *testing.T) {
	q := newTestQueue(3)
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		i := i
		_, err := q.Enqueue(func(ctx context.Context) error {
			return fmt.Errorf("boom %d", i)
		})
		require.NoError(t, err)
	}

	q.Drain()

	st := q.Stats()
	assert.Equal(t, uint64(5), st.Failed)
	require.Len(t, st.RecentErrors, 3)
	// oldest entries evicted first
	assert.Equal(t, "boom 2", st.RecentErrors[0].Err)
	assert.Equal(t, "boom 4", st.RecentErrors[2].Err)
}

func TestQueue_EnqueueAfterDrainFails(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())
	q.Drain()

	_, err := q.Enqueue(func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_AcceptedJobsSurviveContextCancel(t *testing.T) {
	q := newTestQueue(20)
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)

	release := make(chan struct{})
	started := make(chan struct{})
	_, err := q.Enqueue(func(ctx context.Context) error {
		close(started)
		<-release
		return ctx.Err()
	})
	require.NoError(t, err)

	committed := false
	_, err = q.Enqueue(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		committed = true
		return nil
	})
	require.NoError(t, err)

	// Cancel while the first job holds the worker, mimicking a shutdown
	// signal arriving with work still queued.
	<-started
	cancel()
	close(release)
	q.Drain()

	assert.True(t, committed)
	st := q.Stats()
	assert.Equal(t, uint64(2), st.Processed)
	assert.Equal(t, uint64(0), st.Failed)
}

func TestQueue_AttemptsCountedAfterContextCancel(t *testing.T) {
	q := newTestQueue(20)
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	cancel()

	calls := 0
	_, err := q.Enqueue(func(ctx context.Context) error {
		calls++
		return busyError{}
	})
	require.NoError(t, err)

	q.Drain()

	assert.Equal(t, maxAttempts, calls)
	st := q.Stats()
	require.Len(t, st.RecentErrors, 1)
	assert.Equal(t, maxAttempts, st.RecentErrors[0].Attempts)
}

func TestQueue_ConcurrentEnqueueAndDrain(t *testing.T) {
	q := newTestQueue(20)
	q.Start(context.Background())

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, err := q.Enqueue(func(ctx context.Context) error { return nil })
				if err != nil {
					if !errors.Is(err, ErrQueueClosed) {
						t.Errorf("unexpected enqueue error: %v", err)
					}
					return
				}
				accepted.Add(1)
			}
		}()
	}

	q.Drain()
	wg.Wait()

	// Every job accepted before the queue closed ran to completion.
	st := q.Stats()
	assert.Equal(t, uint64(accepted.Load()), st.Processed)
	assert.Equal(t, 0, st.Pending)
}

func TestQueue_PendingCounter(t *testing.T) {
	q := newTestQueue(20)

	release := make(chan struct{})
	started := make(chan struct{})
	_, err := q.Enqueue(func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	_, err = q.Enqueue(func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, 2, q.Stats().Pending)

	q.Start(context.Background())
	<-started
	close(release)
	q.Drain()

	assert.Equal(t, 0, q.Stats().Pending)
}
