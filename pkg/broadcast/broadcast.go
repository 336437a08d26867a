package broadcast

import "sync"

// Subscriber receives values published to the broadcaster it was created by.
type Subscriber[T any] interface {
	// C returns the channel messages arrive on. The channel is closed when
	// the subscriber is closed.
	C() <-chan T

	// Close detaches the subscriber and closes its channel. Idempotent.
	Close()
}

type subscriber[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
	detach func()
}

func (s *subscriber[T]) C() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() {
	if s.detach != nil {
		s.detach()
	}
	s.closeChannel()
}

func (s *subscriber[T]) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// send delivers without blocking; a full buffer means the value is missed.
func (s *subscriber[T]) send(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- value:
		return true
	default:
		return false
	}
}
