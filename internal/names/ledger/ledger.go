// Package ledger owns the domain table: minting, renewal, transfer and
// status. It validates every precondition before writing, so a failed call
// never leaves a partial write in the surrounding transaction.
package ledger

import (
	"context"
	"errors"
	"math"
	"math/bits"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/sentinel"
)

// Store is the slice of registry state the ledger touches. Records are only
// cleared when an expired name is reclaimed.
type Store interface {
	ports.DomainStore
	DeleteRecords(ctx context.Context, name string) error
}

// Ledger applies domain mutations to one transaction's state.
type Ledger struct {
	store  Store
	policy models.Policy
}

// New binds a ledger to st.
func New(st Store, policy models.Policy) *Ledger {
	return &Ledger{store: st, policy: policy}
}

// MintParams describes a mint. Name and Parent are normalized by the ledger.
type MintParams struct {
	Name   string
	Owner  id.Address
	Parent string
	Years  uint32
}

// MintResult is a committed mint. Reclaimed holds the previous registration
// when an expired name was taken over.
type MintResult struct {
	Domain    *models.Domain
	Reclaimed *models.Domain
}

// ValidateMint runs every Mint precondition without writing.
func (l *Ledger) ValidateMint(ctx context.Context, p MintParams, now int64) error {
	_, _, err := l.prepareMint(ctx, p, now)
	return err
}

// Mint registers a name. A present name fails with CodeMinted unless the
// policy lets expired names be reclaimed and the grace period is over.
func (l *Ledger) Mint(ctx context.Context, p MintParams, now int64) (*MintResult, error) {
	d, previous, err := l.prepareMint(ctx, p, now)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		if err := l.store.DeleteRecords(ctx, d.Name); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear reclaimed records")
		}
	}
	if err := l.store.SaveDomain(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save domain")
	}
	return &MintResult{Domain: d, Reclaimed: previous}, nil
}

func (l *Ledger) prepareMint(ctx context.Context, p MintParams, now int64) (*models.Domain, *models.Domain, error) {
	if p.Owner.IsNil() {
		return nil, nil, dErrors.New(dErrors.CodeUnauthenticated, "owner is required")
	}
	name := models.NormalizeName(p.Name)
	if err := models.ValidateName(name, l.policy.MaxNameLength); err != nil {
		return nil, nil, err
	}
	if err := l.validateYears(p.Years); err != nil {
		return nil, nil, err
	}
	parent := models.NormalizeName(p.Parent)
	if err := l.validateParent(ctx, name, parent); err != nil {
		return nil, nil, err
	}

	previous, err := l.store.FindDomain(ctx, name)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		previous = nil
	case err != nil:
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain")
	case !l.reclaimable(previous, now):
		return nil, nil, dErrors.Newf(dErrors.CodeMinted, "%s is already minted", name)
	}

	expiresAt, err := l.extend(now, p.Years)
	if err != nil {
		return nil, nil, err
	}
	d := &models.Domain{
		Name:      name,
		Owner:     p.Owner,
		Parent:    parent,
		MintedAt:  now,
		ExpiresAt: expiresAt,
	}
	return d, previous, nil
}

// validateParent enforces the hierarchy: a multi-label name needs its direct
// parent, which must be minted.
func (l *Ledger) validateParent(ctx context.Context, name, parent string) error {
	if parent == "" {
		if !models.IsRootName(name) {
			return dErrors.Newf(dErrors.CodeInvalidDomainWithParent, "%s must be minted under its parent", name)
		}
		return nil
	}
	if !models.IsChildOf(name, parent) {
		return dErrors.Newf(dErrors.CodeInvalidDomainWithParent, "%s is not a child of %s", name, parent)
	}
	if _, err := l.store.FindDomain(ctx, parent); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeInvalidDomainWithParent, "parent %s is not minted", parent)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent domain")
	}
	return nil
}

func (l *Ledger) reclaimable(d *models.Domain, now int64) bool {
	if !l.policy.ExpiredNamesMintable {
		return false
	}
	freedAt, ok := addInt64(d.ExpiresAt, l.policy.ExpiryGrace)
	return ok && now >= freedAt
}

// ValidateRenew runs every Renew precondition without writing.
func (l *Ledger) ValidateRenew(ctx context.Context, name string, years uint32, now int64) (*models.Domain, error) {
	d, err := l.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := l.validateYears(years); err != nil {
		return nil, err
	}
	if _, err := l.extend(max(now, d.ExpiresAt), years); err != nil {
		return nil, err
	}
	return d, nil
}

// Renew extends a domain by years from the later of now and its current
// expiry, so renewing early never loses paid time.
func (l *Ledger) Renew(ctx context.Context, name string, years uint32, now int64) (*models.Domain, error) {
	d, err := l.ValidateRenew(ctx, name, years, now)
	if err != nil {
		return nil, err
	}
	d.ExpiresAt, _ = l.extend(max(now, d.ExpiresAt), years)
	if err := l.store.SaveDomain(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save domain")
	}
	return d, nil
}

// Transfer moves ownership to newOwner. Ownership is checked before expiry.
func (l *Ledger) Transfer(ctx context.Context, name string, newOwner, caller id.Address, now int64) (*models.Domain, error) {
	d, err := l.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !d.IsOwnedBy(caller) {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "caller does not own %s", d.Name)
	}
	if d.IsExpired(now) && !l.policy.AllowExpiredTransfer {
		return nil, dErrors.Newf(dErrors.CodeDomainNotActive, "%s is expired", d.Name)
	}
	if newOwner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "new owner is required")
	}
	d.Owner = newOwner
	if err := l.store.SaveDomain(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save domain")
	}
	return d, nil
}

// Status reports whether the domain is active at now.
func (l *Ledger) Status(ctx context.Context, name string, now int64) (models.Status, error) {
	d, err := l.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return d.StatusAt(now), nil
}

// Get loads a domain, failing with CodeDomainNotMinted when absent.
func (l *Ledger) Get(ctx context.Context, name string) (*models.Domain, error) {
	name = models.NormalizeName(name)
	d, err := l.store.FindDomain(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeDomainNotMinted, "%s is not minted", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain")
	}
	return d, nil
}

func (l *Ledger) validateYears(years uint32) error {
	if years == 0 || years > l.policy.MaxYears {
		return dErrors.Newf(dErrors.CodeInvalidSubscriptionYears, "years must be between 1 and %d", l.policy.MaxYears)
	}
	return nil
}

// extend returns from + years*YearLength, failing on overflow.
func (l *Ledger) extend(from int64, years uint32) (int64, error) {
	hi, lo := bits.Mul64(uint64(years), uint64(l.policy.YearLength))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, dErrors.New(dErrors.CodeArithmeticOverflow, "subscription length overflows")
	}
	to, ok := addInt64(from, int64(lo))
	if !ok {
		return 0, dErrors.New(dErrors.CodeArithmeticOverflow, "expiry overflows")
	}
	return to, nil
}

// addInt64 adds a non-negative delta, reporting overflow.
func addInt64(a, delta int64) (int64, bool) {
	if a > 0 && delta > math.MaxInt64-a {
		return 0, false
	}
	return a + delta, true
}
