// Package records manages the key/value records attached to domains.
package records

import (
	"context"
	"errors"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/sentinel"
)

// Store is the slice of registry state records need.
type Store interface {
	FindDomain(ctx context.Context, name string) (*models.Domain, error)
	ports.RecordStore
}

// Records applies record mutations to one transaction's state.
type Records struct {
	store  Store
	policy models.Policy
}

// New binds record operations to st.
func New(st Store, policy models.Policy) *Records {
	return &Records{store: st, policy: policy}
}

// Set inserts or overwrites a record. Checks run in order: domain present,
// caller owns it, class not inherited from a parent, domain active, data
// length, custom record cap.
func (r *Records) Set(ctx context.Context, name string, class models.RecordClass, data []byte, caller id.Address, now int64) (*models.Record, error) {
	d, err := r.ownedDomain(ctx, name, class, caller)
	if err != nil {
		return nil, err
	}
	if d.IsExpired(now) {
		return nil, dErrors.Newf(dErrors.CodeDomainExpired, "%s is expired", d.Name)
	}
	if len(data) > r.policy.MaxRecordLength {
		return nil, dErrors.Newf(dErrors.CodeRecordDataTooLong, "record data exceeds %d bytes", r.policy.MaxRecordLength)
	}

	if class.IsCustom() {
		exists, err := r.exists(ctx, d.Name, class)
		if err != nil {
			return nil, err
		}
		if !exists {
			count, err := r.store.CountCustomRecords(ctx, d.Name)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count custom records")
			}
			if count >= r.policy.MaxCustomRecords {
				return nil, dErrors.Newf(dErrors.CodeMaxCustomRecords, "%s already has %d custom records", d.Name, count)
			}
		}
	}

	rec := &models.Record{
		Domain:    d.Name,
		Class:     class,
		Data:      append([]byte(nil), data...),
		UpdatedAt: now,
	}
	if err := r.store.SaveRecord(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save record")
	}
	return rec, nil
}

// Delete removes a record. Deleting is allowed on an expired domain so an
// owner can always clean up.
func (r *Records) Delete(ctx context.Context, name string, class models.RecordClass, caller id.Address) error {
	d, err := r.ownedDomain(ctx, name, class, caller)
	if err != nil {
		return err
	}
	if err := r.store.DeleteRecord(ctx, d.Name, class); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeRecordNotMinted, "%s has no %s record", d.Name, class)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete record")
	}
	return nil
}

// Get reads a record regardless of expiry. Inherited classes on a child
// resolve through the parent chain.
func (r *Records) Get(ctx context.Context, name string, class models.RecordClass) (*models.Record, error) {
	d, err := r.domain(ctx, name)
	if err != nil {
		return nil, err
	}
	// Every parent has one label fewer than its child, so the walk ends.
	for d.Parent != "" && r.policy.IsInherited(class) {
		parent, err := r.store.FindDomain(ctx, d.Parent)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeNotFound, "parent %s of %s is gone", d.Parent, d.Name)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent domain")
		}
		d = parent
	}

	rec, err := r.store.FindRecord(ctx, d.Name, class)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "%s has no %s record", d.Name, class)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return rec, nil
}

func (r *Records) ownedDomain(ctx context.Context, name string, class models.RecordClass, caller id.Address) (*models.Domain, error) {
	d, err := r.domain(ctx, name)
	if err != nil {
		return nil, err
	}
	if !d.IsOwnedBy(caller) {
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "caller does not own %s", d.Name)
	}
	if d.Parent != "" && r.policy.IsInherited(class) {
		return nil, dErrors.Newf(dErrors.CodeParentRecord, "%s records of %s are controlled by %s", class, d.Name, d.Parent)
	}
	return d, nil
}

func (r *Records) domain(ctx context.Context, name string) (*models.Domain, error) {
	name = models.NormalizeName(name)
	d, err := r.store.FindDomain(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeDomainNotMinted, "%s is not minted", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain")
	}
	return d, nil
}

func (r *Records) exists(ctx context.Context, name string, class models.RecordClass) (bool, error) {
	_, err := r.store.FindRecord(ctx, name, class)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
}
