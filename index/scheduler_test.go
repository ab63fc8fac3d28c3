package index

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

func TestScheduler_RunsAllTasks(t *testing.T) {
	s, err := NewScheduler(4, nil)
	require.NoError(t, err)
	defer s.Release()

	var ran int64
	failed := s.ForEach(context.Background(), 100, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	assert.Nil(t, failed)
	assert.Equal(t, int64(100), ran)
}

func TestScheduler_BoundsConcurrency(t *testing.T) {
	s, err := NewScheduler(6, nil)
	require.NoError(t, err)
	defer s.Release()

	var inFlight, peak int64
	var mu sync.Mutex

	s.ForEach(context.Background(), 100, func(ctx context.Context, i int) error {
		n := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		defer atomic.AddInt64(&inFlight, -1)
		time.Sleep(time.Millisecond)
		return nil
	})

	assert.LessOrEqual(t, peak, int64(6))
}

func TestScheduler_IsolatesTaskErrors(t *testing.T) {
	s, err := NewScheduler(4, nil)
	require.NoError(t, err)
	defer s.Release()

	boom := errors.New("task failed")
	var ran int64
	failed := s.ForEach(context.Background(), 20, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		if i%2 == 0 {
			return boom
		}
		return nil
	})

	assert.Equal(t, int64(20), ran, "failures do not stop the other tasks")
	require.Len(t, failed, 20)
	count := 0
	for i, e := range failed {
		if e != nil {
			count++
			assert.Equal(t, 0, i%2)
		}
	}
	assert.Equal(t, 10, count)
}

func TestScheduler_StopsSubmissionOnCancel(t *testing.T) {
	s, err := NewScheduler(1, nil)
	require.NoError(t, err)
	defer s.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	failed := s.ForEach(ctx, 10, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	assert.Equal(t, int64(0), ran)
	require.Len(t, failed, 10)
	for _, e := range failed {
		assert.ErrorIs(t, e, context.Canceled)
	}
}

func TestScheduler_DefaultConcurrency(t *testing.T) {
	s, err := NewScheduler(0, nil)
	require.NoError(t, err)
	defer s.Release()

	assert.Equal(t, DefaultConcurrency, s.Cap())
}
