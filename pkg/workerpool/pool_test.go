package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	pool := New(4)
	defer pool.Shutdown()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
		if err != nil {
			// Full pool: the task never runs, balance the WaitGroup.
			wg.Done()
			require.ErrorIs(t, err, ErrPoolFull)
		}
	}

	wg.Wait()
	assert.Greater(t, atomic.LoadInt64(&count), int64(0))
}

func TestPoolBackpressure(t *testing.T) {
	pool := New(1)
	defer pool.Shutdown()

	block := make(chan struct{})
	defer close(block)

	// Occupy the single worker, then fill the 2-slot buffer.
	require.NoError(t, pool.Submit(func() { <-block }))

	for {
		if err := pool.Submit(func() {}); err != nil {
			assert.ErrorIs(t, err, ErrPoolFull)
			return
		}
	}
}

func TestPoolShutdownRejectsSubmit(t *testing.T) {
	pool := New(2)
	pool.Shutdown()

	err := pool.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolShutdownWaitsForTasks(t *testing.T) {
	pool := New(2)

	var done int64
	require.NoError(t, pool.Submit(func() {
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&done, 1)
	}))

	pool.Shutdown()
	assert.Equal(t, int64(1), atomic.LoadInt64(&done))
}

func TestPoolRecoversFromPanic(t *testing.T) {
	pool := New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func() { panic("boom") }))

	ran := make(chan struct{})
	// The worker must survive the panic and run the next task.
	for {
		err := pool.Submit(func() { close(ran) })
		if err == nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive panicking task")
	}
}
