package util

import (
	"sync"
)

// AtomicEvent holds the latest value handed from a producer to a slower
// consumer. Send never blocks; a consumer that falls behind only ever
// sees the newest value.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	notify chan struct{} // capacity 1, a pending notification
}

func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		notify: make(chan struct{}, 1),
	}
}

// Send replaces the stored value and signals the consumer unless a
// signal is already pending.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event
	select {
	case ae.notify <- struct{}{}:
	default:
	}
}

// Channel returns the notification channel for use in select statements.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

// Value returns the latest value.
func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// HasPending reports whether a notification waits to be consumed,
// without consuming it.
func (ae *AtomicEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}

// Wait blocks until a value was sent or stop is closed. The second
// result is false when stop ended the wait.
func (ae *AtomicEvent[T]) Wait(stop <-chan struct{}) (T, bool) {
	select {
	case <-stop:
		var zero T
		return zero, false
	case <-ae.notify:
		return ae.Value(), true
	}
}
