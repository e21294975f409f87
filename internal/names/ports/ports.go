// Package ports defines the storage and collaborator interfaces of the name
// registry. Ledger, record store, mint gate and service depend only on these.
package ports

import (
	"context"

	"pns/internal/names/models"
	id "pns/pkg/domain"
	"pns/pkg/platform/audit"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks PaymentRail,NFTLedger,AccessControl,AirdropStore,AuditPublisher

// DomainStore persists the domain table. Find returns sentinel.ErrNotFound for
// absent names.
type DomainStore interface {
	FindDomain(ctx context.Context, name string) (*models.Domain, error)
	SaveDomain(ctx context.Context, d *models.Domain) error
	CountDomains(ctx context.Context) (int, error)
}

// RecordStore persists the record table and the per-domain custom counter.
type RecordStore interface {
	FindRecord(ctx context.Context, name string, class models.RecordClass) (*models.Record, error)
	// SaveRecord inserts or overwrites; a new custom key increments the
	// domain's custom counter.
	SaveRecord(ctx context.Context, r *models.Record) error
	// DeleteRecord removes the record; a custom key decrements the counter.
	DeleteRecord(ctx context.Context, name string, class models.RecordClass) error
	// DeleteRecords clears every record of a domain and resets its counter.
	DeleteRecords(ctx context.Context, name string) error
	CountCustomRecords(ctx context.Context, name string) (int, error)
}

// GateStore persists mint gate state.
type GateStore interface {
	IsWhitelisted(ctx context.Context, addr id.Address) (bool, error)
	AddToWhitelist(ctx context.Context, addrs ...id.Address) error
	RemoveFromWhitelist(ctx context.Context, addr id.Address) error
	MintCount(ctx context.Context, addr id.Address) (uint32, error)
	// IncrementMintCount is the only mutation of a mint count; counts never
	// decrease.
	IncrementMintCount(ctx context.Context, addr id.Address) (uint32, error)
}

// SettingsStore persists the admin-mutable settings.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
}

// PaymentStore persists fee transfers awaiting confirmation.
type PaymentStore interface {
	SavePayment(ctx context.Context, p *models.PendingPayment) error
	FindPayment(ctx context.Context, paymentID string) (*models.PendingPayment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	CountPayments(ctx context.Context) (int, error)
}

// State is the full registry state as seen inside one transaction.
type State interface {
	DomainStore
	RecordStore
	GateStore
	SettingsStore
	PaymentStore
}

// Store runs registry operations atomically. Writes made through the State
// passed to RunInTx are discarded when fn returns an error. View gives a
// read-only State; writes through it are undefined.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, st State) error) error
	View(ctx context.Context, fn func(ctx context.Context, st State) error) error
}

// PaymentRail is the fungible-token rail used to collect fees. A request is
// later resolved by a separate confirmation carrying its id.
type PaymentRail interface {
	RequestTransfer(ctx context.Context, token, from, to id.Address, amount uint64) (string, error)
}

// NFTLedger mirrors domain ownership; the token id is the normalized name.
type NFTLedger interface {
	RecordMint(ctx context.Context, tokenID string, owner id.Address) error
	RecordTransfer(ctx context.Context, tokenID string, newOwner id.Address) error
	OwnerOf(ctx context.Context, tokenID string) (id.Address, error)
}

// AccessControl answers the admin gate.
type AccessControl interface {
	IsAdmin(ctx context.Context, addr id.Address) (bool, error)
}

// AirdropStore tracks one-shot fee waivers. ConsumeEntitlement fails with
// CodeAirdropNotValid when no entitlement is left.
type AirdropStore interface {
	HasEntitlement(ctx context.Context, addr id.Address) (bool, error)
	ConsumeEntitlement(ctx context.Context, addr id.Address) error
	GrantEntitlement(ctx context.Context, addr id.Address) error
}

// AuditPublisher emits audit events for registry mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
