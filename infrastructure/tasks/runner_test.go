package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmit_RunsTaskAndShutdownDrains(t *testing.T) {
	// Arrange
	runner := NewGoRunner(zap.NewNop())
	var ran atomic.Bool

	// Act
	runner.Submit("repair", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	err := runner.Shutdown(context.Background())

	// Assert
	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestSubmit_TaskGetsDetachedContext(t *testing.T) {
	// Arrange
	runner := NewGoRunner(zap.NewNop())
	requestCtx, cancel := context.WithCancel(context.Background())
	cancel()
	var taskErr error

	// Act
	runner.Submit("repair", func(ctx context.Context) error {
		taskErr = ctx.Err()
		return nil
	})
	require.NoError(t, runner.Shutdown(context.Background()))

	// Assert: the cancelled request context does not reach the task.
	assert.Error(t, requestCtx.Err())
	assert.NoError(t, taskErr)
}

func TestSubmit_FailureAndPanicDoNotPropagate(t *testing.T) {
	// Arrange
	runner := NewGoRunner(zap.NewNop())

	// Act
	runner.Submit("failing", func(ctx context.Context) error {
		return errors.New("store down")
	})
	runner.Submit("panicking", func(ctx context.Context) error {
		panic("boom")
	})
	err := runner.Shutdown(context.Background())

	// Assert
	assert.NoError(t, err)
}

func TestShutdown_TimesOutOnStuckTask(t *testing.T) {
	// Arrange
	runner := NewGoRunner(zap.NewNop())
	release := make(chan struct{})
	runner.Submit("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Act
	err := runner.Shutdown(ctx)
	close(release)

	// Assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
