// Package feed provides the handle returned by live subscriptions.
//
// A Stream delivers whole-collection snapshots, which are shared between
// readers and must not be modified. Only the most recent
// undelivered snapshot is kept: publishing never blocks the producer, and a
// slow reader always observes the latest state on its next receive.
package feed

import (
	"context"
	"sync"
)

// Stream is a live subscription handle delivering snapshots of []T.
type Stream[T any] struct {
	updates chan []T
	done    chan struct{}

	mu     sync.Mutex
	closed bool
	err    error

	onClose []func()
}

// New creates an open stream. The onClose callbacks run exactly once when the
// stream is closed or failed, typically to unregister the store listener.
func New[T any](onClose ...func()) *Stream[T] {
	return &Stream[T]{
		updates: make(chan []T, 1),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Updates returns the channel of snapshots. It is closed when the stream ends.
func (s *Stream[T]) Updates() <-chan []T {
	return s.updates
}

// Done is closed when the stream ends.
func (s *Stream[T]) Done() <-chan struct{} {
	return s.done
}

// Err reports why the stream ended. It is nil after a regular Close.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Publish offers a snapshot to the reader, replacing any snapshot that has not
// been received yet. It returns false if the stream is already closed.
func (s *Stream[T]) Publish(snapshot []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case <-s.updates:
	default:
	}
	s.updates <- snapshot

	return true
}

// OnClose registers an extra callback. If the stream is already closed the
// callback runs immediately.
func (s *Stream[T]) OnClose(fn func()) {
	s.mu.Lock()
	if !s.closed {
		s.onClose = append(s.onClose, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn()
}

// Close ends the stream. It is safe to call more than once and from any goroutine.
func (s *Stream[T]) Close() {
	s.finish(nil)
}

// Fail ends the stream with err, which is then reported by Err.
func (s *Stream[T]) Fail(err error) {
	s.finish(err)
}

// CloseWhen closes the stream once ctx is done.
func (s *Stream[T]) CloseWhen(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
}

func (s *Stream[T]) finish(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err
	close(s.updates)
	close(s.done)
	callbacks := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
