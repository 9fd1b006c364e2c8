package blood

import (
	"context"
	"sort"
	"sync"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/sentinel"
)

// InMemory owns blood unit records and the monotonic ID sequence. IDs start
// at 1, strictly increase, and are never reused.
type InMemory struct {
	mu     sync.RWMutex
	units  map[uint64]*models.BloodUnit
	nextID uint64
}

func NewInMemory() *InMemory {
	return &InMemory{units: make(map[uint64]*models.BloodUnit), nextID: 1}
}

// Create assigns the next ID to the unit and stores it. The assigned ID is
// written back into the caller's struct.
func (s *InMemory) Create(_ context.Context, unit *models.BloodUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unit.ID = s.nextID
	s.nextID++
	clone := *unit
	s.units[unit.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, unitID uint64) (*models.BloodUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unit, ok := s.units[unitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *unit
	return &clone, nil
}

func (s *InMemory) Update(_ context.Context, unit *models.BloodUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[unit.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *unit
	s.units[unit.ID] = &clone
	return nil
}

// ListByDonorKey returns the donor's units ordered by ID.
func (s *InMemory) ListByDonorKey(_ context.Context, key id.DonorKey) ([]*models.BloodUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.BloodUnit
	for _, unit := range s.units {
		if unit.DonorKey() == key {
			clone := *unit
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns how many units have been registered.
func (s *InMemory) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.units)), nil
}
