package memory

import (
	"context"
	"sync"

	id "hemotrace/pkg/domain"
	audit "hemotrace/pkg/platform/audit"
)

// InMemoryStore keeps events grouped by donor key. Used by unit tests and as
// the default sink when Kafka is not configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.DonorKey][]audit.Event
	all    []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.DonorKey][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.DonorKey != "" {
		s.events[event.DonorKey] = append(s.events[event.DonorKey], event)
	}
	s.all = append(s.all, event)
	return nil
}

func (s *InMemoryStore) ListByDonor(_ context.Context, key id.DonorKey) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[key]...), nil
}

// ListAll returns every recorded event in emission order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.all...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.DonorKey][]audit.Event)
	s.all = nil
}
