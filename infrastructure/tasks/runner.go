package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"

	"go.uber.org/zap"
)

// DefaultTaskTimeout bounds a single detached task.
const DefaultTaskTimeout = 2 * time.Minute

// GoRunner executes submitted tasks on their own goroutines. Tasks are
// detached from the submitting request: they get a fresh context and their
// failures are logged, never propagated. Shutdown drains in-flight tasks.
type GoRunner struct {
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *zap.Logger
}

// NewGoRunner creates a runner reporting task failures to the given logger.
func NewGoRunner(logger *zap.Logger) *GoRunner {
	return &GoRunner{
		timeout: DefaultTaskTimeout,
		logger:  logger,
	}
}

// Submit schedules the task and returns immediately.
func (r *GoRunner) Submit(name string, task func(ctx context.Context) error) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := task(ctx); err != nil {
			r.logger.Error("Background task failed",
				zap.String("task", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}

		r.logger.Debug("Background task completed",
			zap.String("task", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()
}

// Shutdown blocks until in-flight tasks finish or the context expires.
func (r *GoRunner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.TaskRunner = (*GoRunner)(nil)
