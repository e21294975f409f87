// Package nft mirrors domain ownership as non-fungible tokens keyed by the
// normalized domain name.
package nft

import (
	"context"
	"sync"

	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// InMemoryLedger is a process-local NFT ledger, paired with the in-memory
// registry store.
type InMemoryLedger struct {
	mu     sync.RWMutex
	owners map[string]id.Address
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{owners: make(map[string]id.Address)}
}

// RecordMint creates a token. Minting an existing token fails with
// CodeMinted; reclaimed names move through RecordTransfer instead.
func (l *InMemoryLedger) RecordMint(_ context.Context, tokenID string, owner id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[tokenID]; ok {
		return dErrors.Newf(dErrors.CodeMinted, "token %s already exists", tokenID)
	}
	l.owners[tokenID] = owner
	return nil
}

func (l *InMemoryLedger) RecordTransfer(_ context.Context, tokenID string, newOwner id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[tokenID]; !ok {
		return dErrors.Newf(dErrors.CodeNotFound, "token %s does not exist", tokenID)
	}
	l.owners[tokenID] = newOwner
	return nil
}

func (l *InMemoryLedger) OwnerOf(_ context.Context, tokenID string) (id.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[tokenID]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeNotFound, "token %s does not exist", tokenID)
	}
	return owner, nil
}
