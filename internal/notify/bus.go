package notify

import (
	"sync"
	"sync/atomic"
)

type subscriber[T any] struct {
	id      uint64
	fn      func(T)
	ch      chan T
	mu      sync.Mutex
	closed  bool
	dropped *atomic.Uint64
	onDrop  func()
}

func (s *subscriber[T]) deliver(v T) {
	if s.fn != nil {
		s.fn(v)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- v:
	default:
		s.dropped.Add(1)
		if s.onDrop != nil {
			s.onDrop()
		}
	}
}

func (s *subscriber[T]) close() {
	if s.ch == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Bus fans one value out to every current subscriber. The zero value is not
// usable; call New.
type Bus[T any] struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    []*subscriber[T]
	dropped atomic.Uint64
	onDrop  func()
}

// New returns an empty bus. onDrop, if set, runs each time a channel
// subscriber misses a value.
func New[T any](onDrop func()) *Bus[T] {
	return &Bus[T]{onDrop: onDrop}
}

// Subscribe registers fn and returns its id.
func (b *Bus[T]) Subscribe(fn func(T)) uint64 {
	if fn == nil {
		return 0
	}
	return b.add(&subscriber[T]{fn: fn})
}

// SubscribeChan registers a buffered channel subscriber. The channel is
// closed by Unsubscribe or Close.
func (b *Bus[T]) SubscribeChan(buffer int) (uint64, <-chan T) {
	if buffer <= 0 {
		buffer = 1
	}
	s := &subscriber[T]{
		ch:      make(chan T, buffer),
		dropped: &b.dropped,
		onDrop:  b.onDrop,
	}
	return b.add(s), s.ch
}

func (b *Bus[T]) add(s *subscriber[T]) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	return s.id
}

// Unsubscribe removes the subscriber with id. It reports whether one was
// found. A value being published concurrently may still reach it.
func (b *Bus[T]) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	var removed *subscriber[T]
	for i, s := range b.subs {
		if s.id == id {
			removed = s
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	if removed == nil {
		return false
	}
	removed.close()
	return true
}

// Publish delivers v to a snapshot of the current subscribers, in the order
// they subscribed. Listeners may subscribe or unsubscribe while running.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	snapshot := b.subs
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.deliver(v)
	}
}

// Len reports the number of live subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped reports values lost to full channel subscribers.
func (b *Bus[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close removes every subscriber and closes channel subscriptions.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
}
