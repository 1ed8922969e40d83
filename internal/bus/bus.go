// Package bus carries actions from any number of producers to the single
// dispatch loop consumer.
package bus

import (
	"errors"
	"sync"

	"github.com/studiowebux/spotui/internal/action"
)

// ErrClosed is returned by Send once the consumer has gone away
var ErrClosed = errors.New("action bus closed")

// Sender is the producer side of the bus handed to components and workers
type Sender interface {
	Send(a action.Action) error
}

// Bus is an unbounded FIFO queue of actions.
// Send never blocks; ordering is preserved per producer.
type Bus struct {
	mu     sync.Mutex
	queue  []action.Action
	head   int
	closed bool
	ready  chan struct{}
}

// New creates an empty bus
func New() *Bus {
	return &Bus{ready: make(chan struct{}, 1)}
}

// Send enqueues an action
func (b *Bus) Send(a action.Action) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.queue = append(b.queue, a.Clone())
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
	return nil
}

// TryReceive returns the next action, or false when the queue is empty
func (b *Bus) TryReceive() (action.Action, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head >= len(b.queue) {
		return action.Action{}, false
	}

	a := b.queue[b.head]
	b.queue[b.head] = action.Action{}
	b.head++

	// Reclaim the consumed prefix once the queue drains
	if b.head == len(b.queue) {
		b.queue = b.queue[:0]
		b.head = 0
	}
	return a, true
}

// Ready is signalled after each Send. A single signal may cover several
// queued actions, so consumers drain with TryReceive until empty.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}

// Len returns the number of queued actions
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) - b.head
}

// Close stops accepting actions. Queued actions can still be received.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Closed reports whether Close was called
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
