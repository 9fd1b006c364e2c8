package transfer

import (
	"context"
	"sync"

	"hemotrace/internal/registry/models"
)

// InMemory is the append-only transfer log, one ordered slice per blood unit.
// Entries are never mutated or removed.
type InMemory struct {
	mu      sync.RWMutex
	records map[uint64][]models.TransferRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[uint64][]models.TransferRecord)}
}

func (s *InMemory) Append(_ context.Context, record models.TransferRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.BloodUnitID] = append(s.records[record.BloodUnitID], record)
	return nil
}

// ListByBloodUnit returns the unit's history in insertion order.
func (s *InMemory) ListByBloodUnit(_ context.Context, unitID uint64) ([]models.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TransferRecord{}, s.records[unitID]...), nil
}
