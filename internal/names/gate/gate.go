// Package gate admits fresh mints: pause flag, whitelist phase, per-address
// mint cap and fee determination, checked in that order.
package gate

import (
	"context"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// Store is the slice of registry state the gate reads and writes.
type Store interface {
	ports.GateStore
	LoadSettings(ctx context.Context) (models.Settings, error)
}

// Gate checks and commits mint admission inside one transaction.
type Gate struct {
	store    Store
	airdrops ports.AirdropStore
	policy   models.Policy
}

// New binds a gate to st. airdrops may be nil when no entitlements exist.
func New(st Store, airdrops ports.AirdropStore, policy models.Policy) *Gate {
	return &Gate{store: st, airdrops: airdrops, policy: policy}
}

// Admission is the outcome of a passed gate.
type Admission struct {
	Settings models.Settings
	Fee      uint64
	// Airdrop is set when the fee is waived by an entitlement, which must be
	// consumed when the mint commits.
	Airdrop bool
}

// Admit runs the gate checks for caller minting name for years. The first
// failing check wins.
func (g *Gate) Admit(ctx context.Context, caller id.Address, name string, years uint32) (*Admission, error) {
	settings, err := g.store.LoadSettings(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	if settings.Paused {
		return nil, dErrors.New(dErrors.CodeContractDisabled, "registry is paused")
	}

	entitled, err := g.hasEntitlement(ctx, caller)
	if err != nil {
		return nil, err
	}
	if settings.WhitelistPhase && !entitled {
		listed, err := g.store.IsWhitelisted(ctx, caller)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check whitelist")
		}
		if !listed {
			return nil, dErrors.New(dErrors.CodeUserNotWhitelisted, "caller is not whitelisted")
		}
	}

	if err := g.CheckCap(ctx, caller); err != nil {
		return nil, err
	}

	if entitled {
		return &Admission{Settings: settings, Airdrop: true}, nil
	}
	if years == 0 || years > g.policy.MaxYears {
		return nil, dErrors.Newf(dErrors.CodeInvalidSubscriptionYears, "years must be between 1 and %d", g.policy.MaxYears)
	}
	amount, err := fee.NewCurve(settings.FeeTiers).Quote(name, years)
	if err != nil {
		return nil, err
	}
	if amount > 0 {
		if err := settings.RequirePaymentInfo(); err != nil {
			return nil, err
		}
	}
	return &Admission{Settings: settings, Fee: amount}, nil
}

// CheckCap fails once caller has minted MintCap domains. A zero cap admits
// everyone.
func (g *Gate) CheckCap(ctx context.Context, caller id.Address) error {
	if g.policy.MintCap == 0 {
		return nil
	}
	count, err := g.store.MintCount(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mint count")
	}
	if count >= g.policy.MintCap {
		return dErrors.Newf(dErrors.CodeMintCountLimitReached, "mint limit of %d reached", g.policy.MintCap)
	}
	return nil
}

// Commit records a successful mint by raising the caller's mint count.
func (g *Gate) Commit(ctx context.Context, caller id.Address) (uint32, error) {
	count, err := g.store.IncrementMintCount(ctx, caller)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to increment mint count")
	}
	return count, nil
}

// ConsumeAirdrop spends the caller's entitlement. The airdrop store is not
// part of the registry transaction, so callers run it after every other
// write of the mint has succeeded.
func (g *Gate) ConsumeAirdrop(ctx context.Context, caller id.Address) error {
	if g.airdrops == nil {
		return dErrors.New(dErrors.CodeAirdropNotValid, "no airdrop entitlements are configured")
	}
	if err := g.airdrops.ConsumeEntitlement(ctx, caller); err != nil {
		if dErrors.HasCode(err, dErrors.CodeAirdropNotValid) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume airdrop entitlement")
	}
	return nil
}

func (g *Gate) hasEntitlement(ctx context.Context, caller id.Address) (bool, error) {
	if g.airdrops == nil {
		return false, nil
	}
	ok, err := g.airdrops.HasEntitlement(ctx, caller)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check airdrop entitlement")
	}
	return ok, nil
}
