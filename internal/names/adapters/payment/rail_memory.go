// Package payment provides the fungible-token rail used to collect registry
// fees.
package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// TransferRequest is a fee transfer accepted by the rail.
type TransferRequest struct {
	ID     string
	Token  id.Address
	From   id.Address
	To     id.Address
	Amount uint64
}

// InMemoryRail accepts transfers of the tokens it supports and remembers
// them. Settlement is reported back to the registry by whoever operates the
// rail.
type InMemoryRail struct {
	mu       sync.RWMutex
	tokens   map[id.Address]struct{}
	requests map[string]TransferRequest
}

// NewInMemoryRail supports the given tokens.
func NewInMemoryRail(tokens ...id.Address) *InMemoryRail {
	r := &InMemoryRail{
		tokens:   make(map[id.Address]struct{}, len(tokens)),
		requests: make(map[string]TransferRequest),
	}
	for _, t := range tokens {
		r.tokens[t] = struct{}{}
	}
	return r
}

// RequestTransfer fails with CodePaymentInfoNotValid for an unsupported
// token, a zero amount or a missing party.
func (r *InMemoryRail) RequestTransfer(_ context.Context, token, from, to id.Address, amount uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; !ok {
		return "", dErrors.Newf(dErrors.CodePaymentInfoNotValid, "token %s is not supported", token)
	}
	if amount == 0 {
		return "", dErrors.New(dErrors.CodePaymentInfoNotValid, "amount must be positive")
	}
	if from.IsNil() || to.IsNil() {
		return "", dErrors.New(dErrors.CodePaymentInfoNotValid, "sender and receiver are required")
	}

	req := TransferRequest{ID: uuid.NewString(), Token: token, From: from, To: to, Amount: amount}
	r.requests[req.ID] = req
	return req.ID, nil
}

// Request returns an accepted transfer by id.
func (r *InMemoryRail) Request(transferID string) (TransferRequest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[transferID]
	return req, ok
}
