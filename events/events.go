// Package events provides a minimal typed observer registry used to
// decouple the render loop from its consumers.
package events

// Subscription identifies one registered listener and can be used to
// remove it without relying on function identity.
type Subscription struct {
	stream remover
	id     uint64
}

// Close removes the listener. Safe to call more than once, and safe to
// call from inside a broadcast.
func (s *Subscription) Close() {
	if s.stream != nil {
		s.stream.remove(s.id)
		s.stream = nil
	}
}

type remover interface {
	remove(id uint64)
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Stream is an ordered set of listeners for one event type. The zero value
// is ready to use. Not safe for concurrent use; all access happens on the
// event-loop thread.
type Stream[T any] struct {
	listeners []listener[T]
	nextID    uint64
}

// Subscribe registers fn and returns a handle for removal. Listeners are
// invoked in registration order.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	s.nextID++
	s.listeners = append(s.listeners, listener[T]{id: s.nextID, fn: fn})
	return &Subscription{stream: s, id: s.nextID}
}

// Emit broadcasts v to all listeners. The listener set is snapshotted
// before iterating, so subscribing or closing from inside a callback never
// corrupts the walk; a listener removed mid-broadcast may still see the
// event that was already in flight.
func (s *Stream[T]) Emit(v T) {
	snapshot := make([]listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len reports the number of registered listeners.
func (s *Stream[T]) Len() int { return len(s.listeners) }

func (s *Stream[T]) remove(id uint64) {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}
