package models

import (
	"fmt"

	"pns/internal/names/fee"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// SecondsPerYear is the default subscription year.
const SecondsPerYear int64 = 365 * 24 * 60 * 60

// Policy is the static registry configuration, fixed at start-up.
type Policy struct {
	// YearLength is the length of one subscription year in seconds.
	YearLength int64

	// MaxYears bounds the years purchasable in one mint or renewal.
	MaxYears uint32

	MaxNameLength    int
	MaxRecordLength  int
	MaxCustomRecords int

	// MintCap bounds the domains a single address may mint. Zero disables it.
	MintCap uint32

	// ExpiredNamesMintable lets anyone mint a name once it has been expired
	// for at least ExpiryGrace seconds.
	ExpiredNamesMintable bool
	ExpiryGrace          int64

	// AllowExpiredTransfer permits owners to transfer expired domains.
	AllowExpiredTransfer bool

	// InheritedClasses are record classes a child domain takes from its
	// parent; they can only be changed on the parent.
	InheritedClasses []RecordClass
}

// DefaultPolicy returns the reference registry policy.
func DefaultPolicy() Policy {
	return Policy{
		YearLength:       SecondsPerYear,
		MaxYears:         10,
		MaxNameLength:    64,
		MaxRecordLength:  256,
		MaxCustomRecords: 5,
		MintCap:          10,
		ExpiryGrace:      30 * 24 * 60 * 60,
		InheritedClasses: []RecordClass{ClassURI},
	}
}

// Validate reports configuration that would break ledger invariants.
func (p Policy) Validate() error {
	if p.YearLength <= 0 {
		return fmt.Errorf("year length must be positive")
	}
	if p.MaxYears == 0 {
		return fmt.Errorf("max years must be positive")
	}
	if p.MaxNameLength <= 0 {
		return fmt.Errorf("max name length must be positive")
	}
	if p.MaxRecordLength <= 0 {
		return fmt.Errorf("max record length must be positive")
	}
	if p.MaxCustomRecords < 0 {
		return fmt.Errorf("max custom records cannot be negative")
	}
	if p.ExpiryGrace < 0 {
		return fmt.Errorf("expiry grace cannot be negative")
	}
	for _, c := range p.InheritedClasses {
		if c.IsCustom() {
			return fmt.Errorf("custom class %q cannot be inherited", c)
		}
	}
	return nil
}

// IsInherited reports whether class is controlled by the parent domain.
func (p Policy) IsInherited(class RecordClass) bool {
	for _, c := range p.InheritedClasses {
		if c == class {
			return true
		}
	}
	return false
}

// Settings is the admin-mutable registry state, persisted with the ledger.
type Settings struct {
	Paused          bool       `json:"paused"`
	WhitelistPhase  bool       `json:"whitelist_phase"`
	PaymentToken    id.Address `json:"payment_token,omitempty"`
	PaymentReceiver id.Address `json:"payment_receiver,omitempty"`
	FeeTiers        fee.Tiers  `json:"fee_tiers"`
}

// DefaultSettings starts unpaused, ungated, with reference pricing and no
// payment info.
func DefaultSettings() Settings {
	return Settings{FeeTiers: fee.ReferenceTiers}
}

// RequirePaymentInfo fails when fees cannot be collected.
func (s Settings) RequirePaymentInfo() error {
	if s.PaymentToken.IsNil() {
		return dErrors.New(dErrors.CodePaymentTokenNotSet, "payment token is not set")
	}
	if s.PaymentReceiver.IsNil() {
		return dErrors.New(dErrors.CodePaymentReceiverNotSet, "payment receiver is not set")
	}
	return nil
}
