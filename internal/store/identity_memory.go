package store

import (
	"context"
	"sync"

	"github.com/lumenlab/glossa/internal/core"
)

// MemoryIdentityStore holds a fixed set of identities. Used for tests and
// for the static_identities development fallback.
type MemoryIdentityStore struct {
	mu         sync.RWMutex
	identities map[string]core.Identity
}

var _ core.IdentityStore = (*MemoryIdentityStore)(nil)

func NewMemoryIdentityStore(identities ...core.Identity) *MemoryIdentityStore {
	m := make(map[string]core.Identity, len(identities))
	for _, ident := range identities {
		m[ident.ID] = ident
	}
	return &MemoryIdentityStore{identities: m}
}

func (s *MemoryIdentityStore) FindByID(_ context.Context, id string) (*core.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ident, ok := s.identities[id]
	if !ok {
		return nil, core.ErrIdentityNotFound
	}
	return &ident, nil
}

// Add inserts or replaces an identity. Test hook.
func (s *MemoryIdentityStore) Add(ident core.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[ident.ID] = ident
}

// Remove deletes an identity, simulating account deletion.
func (s *MemoryIdentityStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.identities, id)
}
