package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"pns/internal/names/gate"
	"pns/internal/names/ledger"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/audit"
	"pns/pkg/platform/sentinel"
)

// Outcome is the result of a fee-bearing operation. Exactly one field is
// set: Domain when the operation committed, Payment when it waits for the
// fee transfer to be confirmed.
type Outcome struct {
	Domain  *models.Domain
	Payment *models.PendingPayment
}

// Pending reports whether the operation awaits payment confirmation.
func (o *Outcome) Pending() bool {
	return o.Payment != nil
}

// Mint registers name for the caller. The mint gate runs first; a waived or
// zero fee commits immediately, otherwise the fee transfer is requested and
// nothing is minted until ConfirmPayment.
func (s *Service) Mint(ctx context.Context, name, parent string, years uint32) (_ *Outcome, err error) {
	name = models.NormalizeName(name)
	ctx, op := s.begin(ctx, "mint", attribute.String("pns.name", name), attribute.Int64("pns.years", int64(years)))
	defer func() { s.end(op, err) }()

	caller, now, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	params := ledger.MintParams{Name: name, Owner: caller, Parent: parent, Years: years}

	var (
		out    = &Outcome{}
		minted *ledger.MintResult
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		adm, err := gate.New(st, s.airdrops, s.policy).Admit(ctx, caller, name, years)
		if err != nil {
			return err
		}
		if adm.Airdrop || adm.Fee == 0 {
			minted, err = s.commitMint(ctx, st, params, adm.Airdrop, now)
			if err != nil {
				return err
			}
			out.Domain = minted.Domain
			return nil
		}
		if err := ledger.New(st, s.policy).ValidateMint(ctx, params, now); err != nil {
			return err
		}
		out.Payment, err = s.requestPayment(ctx, st, models.PaymentKindMint, adm.Settings, adm.Fee, params, now)
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
	s.afterMint(ctx, caller, minted, "")
	return out, nil
}

// ConfirmPayment settles a pending payment reported by the payment rail.
// A failed transfer drops the pending entry and changes nothing else. A
// successful one applies the mint or renewal; when that is no longer
// possible the entry is dropped and the rejection returned. Internal
// failures leave the entry pending so the confirmation can be retried.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string, success bool) (_ *Outcome, err error) {
	ctx, op := s.begin(ctx, "confirm_payment", attribute.String("pns.payment_id", paymentID), attribute.Bool("pns.success", success))
	defer func() { s.end(op, err) }()

	confirmer, now, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireConfirmer(ctx, confirmer); err != nil {
		return nil, err
	}

	var (
		out      = &Outcome{}
		pending  *models.PendingPayment
		minted   *ledger.MintResult
		applyErr error
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		pending, err = st.FindPayment(ctx, paymentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Newf(dErrors.CodeNotFound, "payment %s not found", paymentID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payment")
		}
		if err := st.DeletePayment(ctx, paymentID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete payment")
		}
		if !success {
			out.Payment = pending
			return nil
		}

		switch pending.Kind {
		case models.PaymentKindMint:
			params := ledger.MintParams{Name: pending.Name, Owner: pending.Caller, Parent: pending.Parent, Years: pending.Years}
			minted, applyErr = s.commitMint(ctx, st, params, false, now)
			if applyErr != nil {
				return applyErr
			}
			out.Domain = minted.Domain
		case models.PaymentKindRenew:
			out.Domain, applyErr = ledger.New(st, s.policy).Renew(ctx, pending.Name, pending.Years, now)
			if applyErr != nil {
				return applyErr
			}
		default:
			applyErr = dErrors.Newf(dErrors.CodeInternal, "unknown payment kind %q", pending.Kind)
			return applyErr
		}
		return nil
	})
	if applyErr != nil && dErrors.CodeOf(applyErr) != dErrors.CodeInternal {
		s.rejectPayment(ctx, pending, applyErr)
		return nil, applyErr
	}
	if err != nil {
		return nil, err
	}
	defer s.refreshPendingPayments(ctx)

	if !success {
		s.logAudit(ctx, audit.EventPaymentFailed,
			"name", pending.Name, "caller", pending.Caller, "payment_id", pending.ID, "reason", "transfer failed")
		return out, nil
	}
	switch pending.Kind {
	case models.PaymentKindMint:
		s.afterMint(ctx, pending.Caller, minted, pending.ID)
	case models.PaymentKindRenew:
		s.logAudit(ctx, audit.EventDomainRenewed,
			"name", out.Domain.Name, "caller", pending.Caller, "expires_at", out.Domain.ExpiresAt, "payment_id", pending.ID)
		s.incrementRenewed()
	}
	return out, nil
}

// commitMint writes a mint: ledger entry, mint count, NFT and finally the
// airdrop entitlement. The entitlement lives outside the registry
// transaction, so it is spent only once every other write has succeeded.
// The cap is checked again because a confirmation can arrive after other
// mints by the same caller.
func (s *Service) commitMint(ctx context.Context, st ports.State, p ledger.MintParams, airdrop bool, now int64) (*ledger.MintResult, error) {
	g := gate.New(st, s.airdrops, s.policy)
	if err := g.CheckCap(ctx, p.Owner); err != nil {
		return nil, err
	}
	res, err := ledger.New(st, s.policy).Mint(ctx, p, now)
	if err != nil {
		return nil, err
	}
	if _, err := g.Commit(ctx, p.Owner); err != nil {
		return nil, err
	}
	if res.Reclaimed != nil {
		err = s.nft.RecordTransfer(ctx, res.Domain.Name, p.Owner)
	} else {
		err = s.nft.RecordMint(ctx, res.Domain.Name, p.Owner)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record nft")
	}
	if airdrop {
		if err := g.ConsumeAirdrop(ctx, p.Owner); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// requestPayment asks the rail for the fee transfer and stores the pending
// payment under the rail's transfer id.
func (s *Service) requestPayment(ctx context.Context, st ports.PaymentStore, kind models.PaymentKind, settings models.Settings, fee uint64, p ledger.MintParams, now int64) (*models.PendingPayment, error) {
	transferID, err := s.rail.RequestTransfer(ctx, settings.PaymentToken, p.Owner, settings.PaymentReceiver, fee)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePaymentInfoNotValid) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payment rail request failed")
	}
	pending := &models.PendingPayment{
		ID:        transferID,
		Kind:      kind,
		Caller:    p.Owner,
		Name:      models.NormalizeName(p.Name),
		Parent:    models.NormalizeName(p.Parent),
		Years:     p.Years,
		Fee:       fee,
		Token:     settings.PaymentToken,
		Receiver:  settings.PaymentReceiver,
		CreatedAt: now,
	}
	if err := st.SavePayment(ctx, pending); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save payment")
	}
	return pending, nil
}

// rejectPayment drops a paid payment whose mint or renewal was refused, in
// its own transaction, so the rail can refund it.
func (s *Service) rejectPayment(ctx context.Context, p *models.PendingPayment, cause error) {
	err := s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if err := st.DeletePayment(ctx, p.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to drop rejected payment", "payment_id", p.ID, "error", err)
	}
	event := audit.EventPaidMintRejected
	if p.Kind == models.PaymentKindRenew {
		event = audit.EventPaymentFailed
	}
	s.logAudit(ctx, event,
		"name", p.Name, "caller", p.Caller, "payment_id", p.ID, "fee", p.Fee,
		"reason", fmt.Sprintf("%s: %s", dErrors.CodeOf(cause), dErrors.Message(cause)))
	s.refreshPendingPayments(ctx)
}

func (s *Service) afterMint(ctx context.Context, caller id.Address, res *ledger.MintResult, paymentID string) {
	attrs := []any{"name", res.Domain.Name, "caller", caller, "expires_at", res.Domain.ExpiresAt}
	if paymentID != "" {
		attrs = append(attrs, "payment_id", paymentID)
	}
	if res.Reclaimed != nil {
		s.logAudit(ctx, audit.EventDomainReclaimed, append(attrs, "previous_owner", res.Reclaimed.Owner)...)
	} else {
		s.logAudit(ctx, audit.EventDomainMinted, attrs...)
	}
	s.incrementMinted()
	s.refreshDomainCount(ctx)
}

func (s *Service) requireConfirmer(ctx context.Context, caller id.Address) error {
	if !s.railOperator.IsNil() && caller == s.railOperator {
		return nil
	}
	ok, err := s.access.IsAdmin(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check admin")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "only the payment rail or an admin may confirm payments")
	}
	return nil
}

func (s *Service) countPayments(ctx context.Context) (int, error) {
	var n int
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		n, err = st.CountPayments(ctx)
		return err
	})
	return n, err
}
