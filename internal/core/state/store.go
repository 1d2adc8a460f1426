package state

import "github.com/niksmo/web-larek/pkg/bus"

// A Record is a value type the store can copy without sharing
// mutable memory.
type Record[T any] interface {
	Clone() T
}

// A Store holds one record and announces every mutation on the bus.
//
// Update clones the record, applies the mutators to the clone and
// publishes the full resulting record under the given event name.
// Readers of a previous snapshot never observe the mutation, and one
// Update produces exactly one event.
type Store[T Record[T]] struct {
	bus *bus.Bus
	rec T
}

func NewStore[T Record[T]](b *bus.Bus, initial T) *Store[T] {
	return &Store[T]{bus: b, rec: initial}
}

func (s *Store[T]) Update(event string, apply func(*T)) {
	next := s.rec.Clone()
	apply(&next)
	s.rec = next
	s.bus.Publish(event, s.rec.Clone())
}

// Snapshot returns a copy of the current record.
func (s *Store[T]) Snapshot() T {
	return s.rec.Clone()
}

// Bus exposes the announcement channel for derived publishers.
func (s *Store[T]) Bus() *bus.Bus {
	return s.bus
}
