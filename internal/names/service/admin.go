package service

import (
	"context"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/audit"
	strutil "pns/pkg/platform/strings"
)

// SetPaymentInfo sets the fee token and the address fees are paid to.
func (s *Service) SetPaymentInfo(ctx context.Context, token, receiver id.Address) error {
	if token.IsNil() || receiver.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "payment token and receiver are required")
	}
	return s.updateSettings(ctx, "payment_info", func(settings *models.Settings) {
		settings.PaymentToken = token
		settings.PaymentReceiver = receiver
	})
}

// SetFeeTiers replaces the yearly fee per name length bucket.
func (s *Service) SetFeeTiers(ctx context.Context, tiers fee.Tiers) error {
	return s.updateSettings(ctx, "fee_tiers", func(settings *models.Settings) {
		settings.FeeTiers = tiers
	})
}

// SetPaused stops or resumes every user mutation. Payment confirmations are
// still accepted while paused.
func (s *Service) SetPaused(ctx context.Context, paused bool) error {
	return s.updateSettings(ctx, "paused", func(settings *models.Settings) {
		settings.Paused = paused
	})
}

// SetWhitelistPhase turns the whitelist gate for fresh mints on or off.
func (s *Service) SetWhitelistPhase(ctx context.Context, on bool) error {
	return s.updateSettings(ctx, "whitelist_phase", func(settings *models.Settings) {
		settings.WhitelistPhase = on
	})
}

func (s *Service) updateSettings(ctx context.Context, key string, mutate func(*models.Settings)) error {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		settings, err := st.LoadSettings(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
		}
		mutate(&settings)
		if err := st.SaveSettings(ctx, settings); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventSettingsUpdated, "name", key, "caller", caller)
	return nil
}

// AddToWhitelist admits addresses to the whitelist phase. Input is trimmed,
// lowercased and deduplicated; one malformed address rejects the batch.
func (s *Service) AddToWhitelist(ctx context.Context, raw []string) ([]id.Address, error) {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	values := strutil.DedupeAndTrimLower(raw)
	if len(values) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one address is required")
	}
	addrs := make([]id.Address, 0, len(values))
	for _, v := range values {
		addr, err := id.ParseAddress(v)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid whitelist address "+v)
		}
		addrs = append(addrs, addr)
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if err := st.AddToWhitelist(ctx, addrs...); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update whitelist")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		s.logAudit(ctx, audit.EventWhitelistUpdated, "name", addr.String(), "caller", caller, "reason", "added")
	}
	return addrs, nil
}

// RemoveFromWhitelist drops addr from the whitelist. Removing an absent
// address is a no-op.
func (s *Service) RemoveFromWhitelist(ctx context.Context, addr id.Address) error {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if err := st.RemoveFromWhitelist(ctx, addr); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update whitelist")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventWhitelistUpdated, "name", addr.String(), "caller", caller, "reason", "removed")
	return nil
}

// GrantAirdrop gives addr one fee-free mint that also bypasses the
// whitelist phase.
func (s *Service) GrantAirdrop(ctx context.Context, addr id.Address) error {
	caller, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	if s.airdrops == nil {
		return dErrors.New(dErrors.CodeBadRequest, "airdrops are not enabled")
	}
	if addr.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if err := s.airdrops.GrantEntitlement(ctx, addr); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant airdrop")
	}
	s.logAudit(ctx, audit.EventAirdropGranted, "name", addr.String(), "caller", caller)
	return nil
}
