// Package airdrop tracks one-shot mint fee waivers per address.
package airdrop

import (
	"context"
	"sync"

	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// InMemoryStore holds entitlements in process.
type InMemoryStore struct {
	mu       sync.Mutex
	entitled map[id.Address]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entitled: make(map[id.Address]struct{})}
}

func (s *InMemoryStore) HasEntitlement(_ context.Context, addr id.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entitled[addr]
	return ok, nil
}

// ConsumeEntitlement spends the entitlement; a second call fails with
// CodeAirdropNotValid.
func (s *InMemoryStore) ConsumeEntitlement(_ context.Context, addr id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entitled[addr]; !ok {
		return dErrors.New(dErrors.CodeAirdropNotValid, "no airdrop entitlement")
	}
	delete(s.entitled, addr)
	return nil
}

// GrantEntitlement is idempotent: an address holds at most one entitlement.
func (s *InMemoryStore) GrantEntitlement(_ context.Context, addr id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entitled[addr] = struct{}{}
	return nil
}
