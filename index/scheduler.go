package index

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultConcurrency is the default ceiling on in-flight indexing tasks.
// The bound exists to protect the LLM service, not the CPU, so it does not
// scale with core count.
const DefaultConcurrency = 6

// Scheduler runs indexing tasks on a bounded worker pool. A task error is
// isolated to that task: the remaining tasks still run.
type Scheduler struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// NewScheduler creates a scheduler with at most concurrency workers.
// Values < 1 fall back to DefaultConcurrency.
func NewScheduler(concurrency int, logger *slog.Logger) (*Scheduler, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, err
	}

	return &Scheduler{pool: pool, logger: logger.With("component", "scheduler")}, nil
}

// ForEach runs task for every index in [0, n), at most pool-size at a time,
// and blocks until all submitted tasks return. Errors are collected per
// index; a nil slice means every task succeeded. Cancellation of ctx stops
// submission of further tasks but lets in-flight ones finish.
func (s *Scheduler) ForEach(ctx context.Context, n int, task func(ctx context.Context, i int) error) []error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []error
	)

	record := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if failed == nil {
			failed = make([]error, n)
		}
		failed[i] = err
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			record(i, err)
			continue
		}

		i := i
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			if err := task(ctx, i); err != nil {
				record(i, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			record(i, submitErr)
		}
	}

	wg.Wait()
	return failed
}

// Cap returns the pool's worker ceiling.
func (s *Scheduler) Cap() int {
	return s.pool.Cap()
}

// Release shuts the pool down. The scheduler must not be used afterwards.
func (s *Scheduler) Release() {
	s.pool.Release()
}
