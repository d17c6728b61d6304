package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsAndReturnsResult(t *testing.T) {
	p := New(2)
	got, err := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSubmitBoundsConcurrency(t *testing.T) {
	p := New(1)
	var running int32
	var maxObserved int32

	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, _ = Submit(context.Background(), p, func(ctx context.Context) (struct{}, error) {
			n := atomic.AddInt32(&running, 1)
			if n > atomic.LoadInt32(&maxObserved) {
				atomic.StoreInt32(&maxObserved, n)
			}
			<-release
			atomic.AddInt32(&running, -1)
			return struct{}{}, nil
		})
		close(done)
	}()

	// Give the first task time to acquire its slot.
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := Submit(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
	assert.Equal(t, int32(1), maxObserved)
}

func TestSubmitPropagatesTaskError(t *testing.T) {
	p := New(1)
	sentinel := assertError{}
	_, err := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
