package access

import (
	"context"
	"sync"

	id "hemotrace/pkg/domain"
)

// InMemoryRoleStore keeps role membership in two boolean sets.
type InMemoryRoleStore struct {
	mu           sync.RWMutex
	institutions map[id.Identity]bool
	hospitals    map[id.Identity]bool
}

func NewInMemoryRoleStore() *InMemoryRoleStore {
	return &InMemoryRoleStore{
		institutions: make(map[id.Identity]bool),
		hospitals:    make(map[id.Identity]bool),
	}
}

func (s *InMemoryRoleStore) SetInstitution(_ context.Context, identity id.Identity, authorized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if authorized {
		s.institutions[identity] = true
	} else {
		delete(s.institutions, identity)
	}
	return nil
}

func (s *InMemoryRoleStore) IsInstitution(_ context.Context, identity id.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.institutions[identity], nil
}

func (s *InMemoryRoleStore) SetHospital(_ context.Context, identity id.Identity, authorized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if authorized {
		s.hospitals[identity] = true
	} else {
		delete(s.hospitals, identity)
	}
	return nil
}

func (s *InMemoryRoleStore) IsHospital(_ context.Context, identity id.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hospitals[identity], nil
}

// InMemoryGrantStore keys the grant relation by grantor, then grantee.
type InMemoryGrantStore struct {
	mu     sync.RWMutex
	grants map[id.Identity]map[id.Identity]bool
}

func NewInMemoryGrantStore() *InMemoryGrantStore {
	return &InMemoryGrantStore{grants: make(map[id.Identity]map[id.Identity]bool)}
}

func (s *InMemoryGrantStore) Grant(_ context.Context, grantor, grantee id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grants[grantor] == nil {
		s.grants[grantor] = make(map[id.Identity]bool)
	}
	s.grants[grantor][grantee] = true
	return nil
}

func (s *InMemoryGrantStore) Revoke(_ context.Context, grantor, grantee id.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants[grantor], grantee)
	return nil
}

func (s *InMemoryGrantStore) HasGrant(_ context.Context, grantor, grantee id.Identity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[grantor][grantee], nil
}
