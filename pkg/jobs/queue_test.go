package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls int32
	done := make(chan Job, 1)
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		done <- job
		return nil
	}, QueueConfig{Workers: 2, MaxRetries: 5, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "n-1", Type: "replacement.created"}))

	select {
	case job := <-done:
		assert.Equal(t, "n-1", job.ID)
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("events", func(context.Context, Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{ID: "n-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestTryEnqueueReportsFullBuffer(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.TryEnqueue(Job{ID: "n-1"}))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not pick up the first job")
	}
	require.NoError(t, q.TryEnqueue(Job{ID: "n-2"}))

	err := q.TryEnqueue(Job{ID: "n-3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
	close(release)
}

func TestStopDeliversBufferedJobs(t *testing.T) {
	var delivered int32
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&delivered, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 16})
	q.Start(context.Background())

	for i := 0; i < 12; i++ {
		require.NoError(t, q.TryEnqueue(Job{ID: "n"}))
	}
	q.Stop()

	assert.EqualValues(t, 12, atomic.LoadInt32(&delivered))
	err := q.TryEnqueue(Job{ID: "late"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopping")
}

func TestStopRetriesFailuresWhileDraining(t *testing.T) {
	var calls int32
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.TryEnqueue(Job{ID: "n-1"}))
	q.Stop()

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestStopCancelsWorkAfterDrainTimeout(t *testing.T) {
	q := NewQueue("events", func(ctx context.Context, job Job) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, DrainTimeout: 20 * time.Millisecond, RetryDelay: time.Hour})
	q.Start(context.Background())
	require.NoError(t, q.TryEnqueue(Job{ID: "stuck"}))

	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not honour the drain timeout")
	}
}
