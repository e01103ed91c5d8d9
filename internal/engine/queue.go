package engine

import "sync"

// dropQueue is a thread-safe FIFO queue of drop intents.
//
// Enqueue may be called from any goroutine (the TUI, a CLI reader) while the
// engine's Run loop is the only consumer.
//
// The signal channel lets Run wait with a context instead of blocking.
type dropQueue struct {
	mu      sync.Mutex
	intents []DropIntent
	closed  bool
	signal  chan struct{} // buffered, size 1
}

func newDropQueue() *dropQueue {
	return &dropQueue{
		intents: make([]DropIntent, 0, 16),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds an intent to the back of the queue.
// Returns false if the queue is closed.
func (q *dropQueue) Enqueue(in DropIntent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.intents = append(q.intents, in)

	// Buffer of 1 coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front intent without blocking.
func (q *dropQueue) TryDequeue() (DropIntent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.intents) == 0 {
		return DropIntent{}, false
	}

	in := q.intents[0]
	if len(q.intents) == 1 {
		q.intents = q.intents[:0]
	} else {
		q.intents = q.intents[1:]
	}
	return in, true
}

// Wait returns a channel that fires when intents may be available.
// It is closed once the queue is closed.
func (q *dropQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *dropQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.intents)
}

// Closed reports whether Close has been called.
func (q *dropQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops further enqueues and wakes any waiter.
func (q *dropQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
