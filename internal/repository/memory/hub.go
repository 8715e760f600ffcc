package memory

import (
	"sync"

	"github.com/dtroode/speechpractice-server/internal/feed"
)

// hub fans snapshots out to every open stream registered under a key.
type hub[T any] struct {
	mu      sync.Mutex
	streams map[string]map[*feed.Stream[T]]struct{}
}

func newHub[T any]() *hub[T] {
	return &hub[T]{streams: make(map[string]map[*feed.Stream[T]]struct{})}
}

func (h *hub[T]) subscribe(key string, initial []T) *feed.Stream[T] {
	stream := feed.New[T]()

	h.mu.Lock()
	if h.streams[key] == nil {
		h.streams[key] = make(map[*feed.Stream[T]]struct{})
	}
	h.streams[key][stream] = struct{}{}
	h.mu.Unlock()

	stream.OnClose(func() { h.unsubscribe(key, stream) })
	stream.Publish(initial)

	return stream
}

func (h *hub[T]) unsubscribe(key string, stream *feed.Stream[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.streams[key], stream)
	if len(h.streams[key]) == 0 {
		delete(h.streams, key)
	}
}

// publish must be called with a snapshot the caller no longer mutates.
func (h *hub[T]) publish(key string, snapshot []T) {
	h.mu.Lock()
	streams := make([]*feed.Stream[T], 0, len(h.streams[key]))
	for s := range h.streams[key] {
		streams = append(streams, s)
	}
	h.mu.Unlock()

	for _, s := range streams {
		s.Publish(snapshot)
	}
}

func (h *hub[T]) count(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams[key])
}
