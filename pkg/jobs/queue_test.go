package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRetriesThenSucceeds(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("sink down")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.TryEnqueue(Job{ID: "1"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job not delivered")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestQueueGivesUp(t *testing.T) {
	var mu sync.Mutex
	var dropped []Job
	gaveUp := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		return errors.New("always")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond, OnGiveUp: func(j Job, err error) {
		mu.Lock()
		dropped = append(dropped, j)
		mu.Unlock()
		close(gaveUp)
	}})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "x"}))
	select {
	case <-gaveUp:
	case <-time.After(2 * time.Second):
		t.Fatal("job never dropped")
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, dropped, 1)
	assert.Equal(t, 2, dropped[0].Attempt)
}

func TestTryEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.TryEnqueue(Job{}))
}

func TestTryEnqueueFullBuffer(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("slow", func(ctx context.Context, job Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	var err error
	for i := 0; i < 5 && err == nil; i++ {
		err = q.TryEnqueue(Job{})
	}
	assert.True(t, errors.Is(err, ErrQueueFull))
	close(release)
	q.Stop()
}

func TestStopDrainsBufferedJobs(t *testing.T) {
	var handled int32
	q := NewQueue("drain", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})
	q.Start(context.Background())
	for i := 0; i < 4; i++ {
		require.NoError(t, q.TryEnqueue(Job{}))
	}
	q.Stop()
	assert.Equal(t, int32(4), atomic.LoadInt32(&handled))
}
