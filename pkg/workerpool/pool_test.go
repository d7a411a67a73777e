package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Submit(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	var n atomic.Int32
	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
		n.Add(1)
		return nil
	}))
	assert.Equal(t, int32(1), n.Load())

	err := p.Submit(context.Background(), func(ctx context.Context) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(1), p.FailedCount())
}

func TestPool_SubmitAsyncDrainedOnShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 16}, nil)

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), func(ctx context.Context) error {
			time.Sleep(time.Millisecond)
			n.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	assert.Equal(t, int32(10), n.Load())
}

func TestPool_Closed(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
}

func TestPool_PanicIsRecovered(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), func(ctx context.Context) error { panic("boom") })
	assert.ErrorIs(t, err, ErrTaskCancelled)
}
