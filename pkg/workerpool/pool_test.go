package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/wardrobe/pkg/workerpool"
)

func TestSubmitRunsEveryJob(t *testing.T) {
	pool := workerpool.New(4)

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	pool.Shutdown()

	assert.Equal(t, int64(8), count.Load())
}

func TestSubmitReportsFullQueue(t *testing.T) {
	pool := workerpool.New(1)
	blocker := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	// One worker busy, queue of two.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(blocker)
	pool.Shutdown()
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}

func TestDoFallsBackToCaller(t *testing.T) {
	var nilPool *workerpool.Pool
	ran := false
	nilPool.Do(func() { ran = true })
	assert.True(t, ran, "nil pool runs inline")

	closed := workerpool.New(1)
	closed.Shutdown()
	ran = false
	closed.Do(func() { ran = true })
	assert.True(t, ran, "closed pool runs inline")
}

func TestShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New(1)

	var count atomic.Int64
	for i := 0; i < 2; i++ {
		pool.Do(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}
	pool.Shutdown()

	assert.Equal(t, int64(2), count.Load())
}

func TestPanickingJobKeepsWorkerAlive(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func() { panic("bad job") }))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}
