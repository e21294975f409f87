package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"pns/internal/names/fee"
	"pns/internal/names/ledger"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/audit"
	"pns/pkg/requestcontext"
)

// Renew extends a domain for years. Anyone may pay for a renewal; the mint
// gate is not consulted.
func (s *Service) Renew(ctx context.Context, name string, years uint32) (_ *Outcome, err error) {
	name = models.NormalizeName(name)
	ctx, op := s.begin(ctx, "renew", attribute.String("pns.name", name), attribute.Int64("pns.years", int64(years)))
	defer func() { s.end(op, err) }()

	caller, now, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		settings, err := ensureRunning(ctx, st)
		if err != nil {
			return err
		}
		l := ledger.New(st, s.policy)
		d, err := l.ValidateRenew(ctx, name, years, now)
		if err != nil {
			return err
		}
		amount, err := fee.NewCurve(settings.FeeTiers).Quote(d.Name, years)
		if err != nil {
			return err
		}
		if amount == 0 {
			out.Domain, err = l.Renew(ctx, name, years, now)
			return err
		}
		if err := settings.RequirePaymentInfo(); err != nil {
			return err
		}
		out.Payment, err = s.requestPayment(ctx, st, models.PaymentKindRenew, settings, amount,
			ledger.MintParams{Name: d.Name, Owner: caller, Parent: d.Parent, Years: years}, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if out.Pending() {
		s.logAudit(ctx, audit.EventPaymentRequested,
			"name", name, "caller", caller, "payment_id", out.Payment.ID, "fee", out.Payment.Fee)
		s.refreshPendingPayments(ctx)
		return out, nil
	}
	s.logAudit(ctx, audit.EventDomainRenewed, "name", name, "caller", caller, "expires_at", out.Domain.ExpiresAt)
	s.incrementRenewed()
	return out, nil
}

// Transfer hands the caller's domain to newOwner and mirrors the change on
// the NFT ledger.
func (s *Service) Transfer(ctx context.Context, name string, newOwner id.Address) (err error) {
	name = models.NormalizeName(name)
	ctx, op := s.begin(ctx, "transfer", attribute.String("pns.name", name))
	defer func() { s.end(op, err) }()

	caller, now, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if _, err := ensureRunning(ctx, st); err != nil {
			return err
		}
		d, err := ledger.New(st, s.policy).Transfer(ctx, name, newOwner, caller, now)
		if err != nil {
			return err
		}
		if err := s.nft.RecordTransfer(ctx, d.Name, newOwner); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record nft transfer")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventDomainTransferred, "name", name, "caller", caller, "new_owner", newOwner)
	s.incrementTransferred()
	return nil
}

// Domain returns a domain and its status at the request time.
func (s *Service) Domain(ctx context.Context, name string) (*models.Domain, models.Status, error) {
	var d *models.Domain
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		d, err = ledger.New(st, s.policy).Get(ctx, name)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return d, d.StatusAt(requestcontext.Now(ctx).Unix()), nil
}

// Quote prices name for years with the current fee tiers.
func (s *Service) Quote(ctx context.Context, name string, years uint32) (uint64, error) {
	name = models.NormalizeName(name)
	if err := models.ValidateName(name, s.policy.MaxNameLength); err != nil {
		return 0, err
	}
	if years == 0 || years > s.policy.MaxYears {
		return 0, dErrors.Newf(dErrors.CodeInvalidSubscriptionYears, "years must be between 1 and %d", s.policy.MaxYears)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return fee.NewCurve(settings.FeeTiers).Quote(name, years)
}

// MintCount returns how many domains addr has minted.
func (s *Service) MintCount(ctx context.Context, addr id.Address) (uint32, error) {
	var n uint32
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		n, err = st.MintCount(ctx, addr)
		return err
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mint count")
	}
	return n, nil
}

// Settings returns the admin-mutable settings.
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		settings, err = st.LoadSettings(ctx)
		return err
	})
	if err != nil {
		return models.Settings{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return settings, nil
}
