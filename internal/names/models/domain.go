package models

import (
	id "pns/pkg/domain"
)

// Status is derived from a domain's expiry and the current time; it is never
// stored.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Domain is a minted name.
//
// Invariants:
//   - Name is unique in the ledger and normalized
//   - ExpiresAt > MintedAt
//   - Parent, when set, named a minted domain at the time the domain was
//     minted; it is never re-validated afterwards
//
// Timestamps are seconds since the Unix epoch.
type Domain struct {
	Name      string     `json:"name"`
	Owner     id.Address `json:"owner"`
	Parent    string     `json:"parent,omitempty"`
	MintedAt  int64      `json:"minted_at"`
	ExpiresAt int64      `json:"expires_at"`
}

// StatusAt returns the domain status at now.
func (d *Domain) StatusAt(now int64) Status {
	if now >= d.ExpiresAt {
		return StatusExpired
	}
	return StatusActive
}

// IsExpired reports whether the domain is expired at now.
func (d *Domain) IsExpired(now int64) bool {
	return d.StatusAt(now) == StatusExpired
}

// IsOwnedBy reports whether addr owns the domain.
func (d *Domain) IsOwnedBy(addr id.Address) bool {
	return !addr.IsNil() && d.Owner == addr
}

// Clone returns a copy safe to mutate.
func (d *Domain) Clone() *Domain {
	c := *d
	return &c
}
