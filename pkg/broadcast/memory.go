package broadcast

import (
	"context"
	"sync"
)

// Memory is an in-memory Broadcaster. All methods are safe for concurrent
// use.
type Memory[T any] struct {
	mu     sync.RWMutex
	subs   map[*subscriber[T]]struct{}
	buffer int
	closed bool
}

// NewMemory creates an in-memory broadcaster whose subscribers buffer up to
// buffer values. A minimum of 1 is enforced so sends stay non-blocking.
func NewMemory[T any](buffer int) *Memory[T] {
	return &Memory[T]{
		subs:   make(map[*subscriber[T]]struct{}),
		buffer: max(buffer, 1),
	}
}

// Subscribe registers a new subscriber. The subscription is removed when the
// context is cancelled or the subscriber is closed. Subscribing to a closed
// broadcaster yields an already-closed subscriber.
func (b *Memory[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &subscriber[T]{ch: make(chan T, b.buffer)}
	sub.detach = func() { b.remove(sub) }

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.closeChannel()
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			b.remove(sub)
		}()
	}

	return sub
}

// Publish delivers value to every subscriber without blocking. Subscribers
// whose buffers are full miss the value and are detached.
func (b *Memory[T]) Publish(value T) {
	b.mu.RLock()
	var dropped []*subscriber[T]
	for sub := range b.subs {
		if !sub.send(value) {
			dropped = append(dropped, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range dropped {
		b.remove(sub)
	}
}

// Close shuts down the broadcaster and closes all subscribers. Idempotent.
func (b *Memory[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for sub := range b.subs {
		sub.closeChannel()
	}
	clear(b.subs)
}

func (b *Memory[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	sub.closeChannel()
}
