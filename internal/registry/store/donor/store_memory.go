package donor

import (
	"context"
	"sync"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/sentinel"
)

// InMemory keeps donor records keyed by the hash-derived donor key.
// Copy-in/copy-out: callers never share memory with the store, so a failed
// operation leaves no partial mutation behind.
type InMemory struct {
	mu     sync.RWMutex
	donors map[id.DonorKey]*models.Donor
}

func NewInMemory() *InMemory {
	return &InMemory{donors: make(map[id.DonorKey]*models.Donor)}
}

func (s *InMemory) Create(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := donor.Key()
	if _, exists := s.donors[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *donor
	s.donors[key] = &clone
	return nil
}

func (s *InMemory) FindByKey(_ context.Context, key id.DonorKey) (*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donor, ok := s.donors[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *donor
	return &clone, nil
}

func (s *InMemory) Update(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := donor.Key()
	if _, ok := s.donors[key]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *donor
	s.donors[key] = &clone
	return nil
}
