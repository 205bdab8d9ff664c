package engine

import (
	"context"
	"sync"

	"github.com/roach88/keyecho/internal/event"
)

// messageType distinguishes queue message kinds.
type messageType int

const (
	// messageInput carries one normalized input event from a capture hook.
	messageInput messageType = iota + 1
	// messageCommand carries a state mutation to run on the loop goroutine.
	messageCommand
)

// message wraps inputs and commands for the controller queue. Commands are
// closures so every piece of shared state is mutated from exactly one
// goroutine; reply channels inside the closure give callers synchronous
// results.
type message struct {
	kind    messageType
	input   *event.InputEvent
	command func(ctx context.Context)
}

// inputQueue is a thread-safe FIFO queue for controller messages.
//
// The queue is unbounded: capture hooks fire on arbitrary, non-deterministic
// timing and must never block or drop events, or the recorded order would
// diverge from what the platform delivered.
//
// Ordering guarantee: messages dequeue in exactly the order they were
// enqueued. No reordering or coalescing of input events is permitted.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop (prevents goroutine hangs on context cancellation).
type inputQueue struct {
	mu     sync.Mutex
	items  []message
	closed bool
	signal chan struct{} // Signals availability (buffered, size 1)
}

// newInputQueue creates an empty queue.
func newInputQueue() *inputQueue {
	return &inputQueue{
		items:  make([]message, 0, 64), // Pre-allocate for typical workloads
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a message to the back of the queue.
// Thread-safe: may be called from any capture or API goroutine.
// Returns false if the queue is closed.
func (q *inputQueue) Enqueue(m message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, m)

	// Signal availability (non-blocking - buffer of 1 coalesces signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (message{}, false) if the queue is empty.
func (q *inputQueue) TryDequeue() (message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return message{}, false
	}

	m := q.items[0]

	// Nil out the slot so the backing array does not retain the message's
	// pointers until reallocation.
	q.items[0] = message{}

	if len(q.items) == 1 {
		// Last element - reset to empty slice with original capacity
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return m, true
}

// Wait returns a channel that signals when messages may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return ctx.Err()
//	case <-q.Wait():
//	    // Try TryDequeue
//	}
func (q *inputQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *inputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close signals that no more messages will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *inputQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return // Already closed
	}

	q.closed = true
	close(q.signal) // Wakes all waiters
}
