package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/board"
)

func TestDropQueue_FIFO(t *testing.T) {
	q := newDropQueue()

	for id := board.TokenID(1); id <= 3; id++ {
		require.True(t, q.Enqueue(DropIntent{Token: id, Target: board.BalanceZone}))
	}
	assert.Equal(t, 3, q.Len())

	for id := board.TokenID(1); id <= 3; id++ {
		in, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, id, in.Token)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestDropQueue_EnqueueAfterClose(t *testing.T) {
	q := newDropQueue()
	q.Close()
	q.Close() // idempotent

	assert.False(t, q.Enqueue(DropIntent{Token: 1}))
	assert.True(t, q.Closed())
	assert.Equal(t, 0, q.Len())
}

func TestDropQueue_WaitSignalsOnEnqueue(t *testing.T) {
	q := newDropQueue()

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Enqueue(DropIntent{Token: 7})
	}()

	select {
	case <-q.Wait():
		in, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, board.TokenID(7), in.Token)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for signal")
	}
}

func TestDropQueue_CloseWakesWaiter(t *testing.T) {
	q := newDropQueue()

	done := make(chan struct{})
	go func() {
		<-q.Wait()
		close(done)
	}()

	q.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by Close")
	}
}

func TestDropQueue_ConcurrentEnqueue(t *testing.T) {
	q := newDropQueue()
	const goroutines = 20
	const perGoroutine = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				q.Enqueue(DropIntent{Token: 1})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, q.Len())
}
