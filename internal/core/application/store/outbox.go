package store

import (
	"slices"

	"marketplace/internal/core/domain/model/order"
)

func (s *Store) record(o *order.Order) {
	if !s.outboxEnabled {
		return
	}
	s.outbox = append(s.outbox, order.NewChangedEvent(o, s.now()))
}

// DrainEvents removes and returns the recorded order changes, oldest first.
// It returns nil when the outbox is disabled.
func (s *Store) DrainEvents() []order.ChangedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.outbox
	s.outbox = nil
	return events
}

// RequeueEvents puts back events that could not be delivered ahead of
// anything recorded since they were drained.
func (s *Store) RequeueEvents(events []order.ChangedEvent) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(slices.Clone(events), s.outbox...)
}

// PendingEvents reports how many events wait in the outbox.
func (s *Store) PendingEvents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outbox)
}
