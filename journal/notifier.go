package journal

import (
	"context"
	"sync"
)

// DefaultSubscriberBuffer is the number of items a subscriber may lag behind before it misses some.
const DefaultSubscriberBuffer = 256

// Notifier hands each item to every current subscriber.
// A subscriber whose buffer is full misses the item; Notify never waits for readers.
type Notifier[T any] struct {
	mu     sync.RWMutex
	subs   map[<-chan T]chan T
	buffer int
	closed bool
}

// NewNotifier returns a Notifier giving each subscriber a buffer of size items.
// A size of 0 selects DefaultSubscriberBuffer.
func NewNotifier[T any](size int) *Notifier[T] {
	if size <= 0 {
		size = DefaultSubscriberBuffer
	}
	return &Notifier[T]{
		subs:   make(map[<-chan T]chan T),
		buffer: size,
	}
}

// Subscribe returns a channel receiving every item notified after the call.
// The channel is closed once ctx is done or the notifier is closed; buffered items
// stay readable until then.
func (n *Notifier[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, n.buffer)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(ch)
		return ch
	}
	n.subs[ch] = ch
	n.mu.Unlock()

	context.AfterFunc(ctx, func() {
		n.unsubscribe(ch)
	})
	return ch
}

func (n *Notifier[T]) unsubscribe(ch <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if w, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(w)
	}
}

// Notify delivers item to every subscriber with room in its buffer.
func (n *Notifier[T]) Notify(item T) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.subs {
		select {
		case ch <- item:
		default:
		}
	}
}

// Close ends every subscription. Later calls to Notify are no-ops and later
// subscriptions are closed immediately.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for _, ch := range n.subs {
		close(ch)
	}
	clear(n.subs)
}
