package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	id "pns/pkg/domain"
	"pns/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// state implements ports.State inside one transaction.
type state struct {
	q queryer
}

func (s *state) FindDomain(ctx context.Context, name string) (*models.Domain, error) {
	var (
		d     models.Domain
		owner string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT name, owner, parent, minted_at, expires_at
		FROM pns_domains WHERE name = $1`, name).
		Scan(&d.Name, &owner, &d.Parent, &d.MintedAt, &d.ExpiresAt)
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find domain: %w", err)
	}
	d.Owner = id.Address(owner)
	return &d, nil
}

func (s *state) SaveDomain(ctx context.Context, d *models.Domain) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO pns_domains (name, owner, parent, minted_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			owner = EXCLUDED.owner,
			parent = EXCLUDED.parent,
			minted_at = EXCLUDED.minted_at,
			expires_at = EXCLUDED.expires_at`,
		d.Name, d.Owner.String(), d.Parent, d.MintedAt, d.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save domain: %w", err)
	}
	return nil
}

func (s *state) CountDomains(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pns_domains`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count domains: %w", err)
	}
	return n, nil
}

func (s *state) FindRecord(ctx context.Context, name string, class models.RecordClass) (*models.Record, error) {
	r := models.Record{Domain: name, Class: class}
	err := s.q.QueryRowContext(ctx, `
		SELECT data, updated_at FROM pns_records WHERE domain = $1 AND class = $2`,
		name, string(class)).
		Scan(&r.Data, &r.UpdatedAt)
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record: %w", err)
	}
	return &r, nil
}

// SaveRecord upserts the record. xmax is zero only for a freshly inserted
// row, which tells a new custom key from an overwrite.
func (s *state) SaveRecord(ctx context.Context, r *models.Record) error {
	var inserted bool
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO pns_records (domain, class, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (domain, class) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`,
		r.Domain, string(r.Class), r.Data, r.UpdatedAt).
		Scan(&inserted)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	if inserted && r.Class.IsCustom() {
		_, err = s.q.ExecContext(ctx, `
			INSERT INTO pns_custom_record_counts (domain, count) VALUES ($1, 1)
			ON CONFLICT (domain) DO UPDATE SET count = pns_custom_record_counts.count + 1`,
			r.Domain)
		if err != nil {
			return fmt.Errorf("increment custom record count: %w", err)
		}
	}
	return nil
}

func (s *state) DeleteRecord(ctx context.Context, name string, class models.RecordClass) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM pns_records WHERE domain = $1 AND class = $2`, name, string(class))
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	if class.IsCustom() {
		_, err = s.q.ExecContext(ctx, `
			UPDATE pns_custom_record_counts SET count = count - 1 WHERE domain = $1 AND count > 0`, name)
		if err != nil {
			return fmt.Errorf("decrement custom record count: %w", err)
		}
	}
	return nil
}

func (s *state) DeleteRecords(ctx context.Context, name string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM pns_records WHERE domain = $1`, name); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM pns_custom_record_counts WHERE domain = $1`, name); err != nil {
		return fmt.Errorf("reset custom record count: %w", err)
	}
	return nil
}

func (s *state) CountCustomRecords(ctx context.Context, name string) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx, `SELECT count FROM pns_custom_record_counts WHERE domain = $1`, name).Scan(&n)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count custom records: %w", err)
	}
	return n, nil
}

func (s *state) IsWhitelisted(ctx context.Context, addr id.Address) (bool, error) {
	var ok bool
	err := s.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pns_whitelist WHERE address = $1)`, addr.String()).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check whitelist: %w", err)
	}
	return ok, nil
}

func (s *state) AddToWhitelist(ctx context.Context, addrs ...id.Address) error {
	if len(addrs) == 0 {
		return nil
	}
	values := make([]string, len(addrs))
	for i, a := range addrs {
		values[i] = a.String()
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO pns_whitelist (address)
		SELECT unnest($1::text[])
		ON CONFLICT (address) DO NOTHING`, pq.Array(values))
	if err != nil {
		return fmt.Errorf("add to whitelist: %w", err)
	}
	return nil
}

func (s *state) RemoveFromWhitelist(ctx context.Context, addr id.Address) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM pns_whitelist WHERE address = $1`, addr.String()); err != nil {
		return fmt.Errorf("remove from whitelist: %w", err)
	}
	return nil
}

func (s *state) MintCount(ctx context.Context, addr id.Address) (uint32, error) {
	var n int64
	err := s.q.QueryRowContext(ctx, `SELECT count FROM pns_mint_counts WHERE address = $1`, addr.String()).Scan(&n)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load mint count: %w", err)
	}
	return uint32(n), nil
}

func (s *state) IncrementMintCount(ctx context.Context, addr id.Address) (uint32, error) {
	var n int64
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO pns_mint_counts (address, count) VALUES ($1, 1)
		ON CONFLICT (address) DO UPDATE SET count = pns_mint_counts.count + 1
		RETURNING count`, addr.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment mint count: %w", err)
	}
	return uint32(n), nil
}

func (s *state) LoadSettings(ctx context.Context) (models.Settings, error) {
	var (
		settings        models.Settings
		token, receiver string
		tiers           []byte
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT paused, whitelist_phase, payment_token, payment_receiver, fee_tiers
		FROM pns_settings WHERE id = 1`).
		Scan(&settings.Paused, &settings.WhitelistPhase, &token, &receiver, &tiers)
	if isNoRows(err) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	var ft fee.Tiers
	if err := json.Unmarshal(tiers, &ft); err != nil {
		return models.Settings{}, fmt.Errorf("decode fee tiers: %w", err)
	}
	settings.FeeTiers = ft
	settings.PaymentToken = id.Address(token)
	settings.PaymentReceiver = id.Address(receiver)
	return settings, nil
}

func (s *state) SaveSettings(ctx context.Context, settings models.Settings) error {
	tiers, err := json.Marshal(settings.FeeTiers)
	if err != nil {
		return fmt.Errorf("encode fee tiers: %w", err)
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO pns_settings (id, paused, whitelist_phase, payment_token, payment_receiver, fee_tiers)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			paused = EXCLUDED.paused,
			whitelist_phase = EXCLUDED.whitelist_phase,
			payment_token = EXCLUDED.payment_token,
			payment_receiver = EXCLUDED.payment_receiver,
			fee_tiers = EXCLUDED.fee_tiers`,
		settings.Paused, settings.WhitelistPhase, settings.PaymentToken.String(), settings.PaymentReceiver.String(), tiers)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *state) SavePayment(ctx context.Context, p *models.PendingPayment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO pns_pending_payments (id, kind, caller, name, parent, years, fee, token, receiver, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, string(p.Kind), p.Caller.String(), p.Name, p.Parent, int64(p.Years),
		strconv.FormatUint(p.Fee, 10), p.Token.String(), p.Receiver.String(), p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *state) FindPayment(ctx context.Context, paymentID string) (*models.PendingPayment, error) {
	var (
		p                             models.PendingPayment
		kind, caller, token, receiver string
		years                         int64
		feeText                       string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT id, kind, caller, name, parent, years, fee::text, token, receiver, created_at
		FROM pns_pending_payments WHERE id = $1`, paymentID).
		Scan(&p.ID, &kind, &caller, &p.Name, &p.Parent, &years, &feeText, &token, &receiver, &p.CreatedAt)
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	amount, err := strconv.ParseUint(feeText, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode payment fee: %w", err)
	}
	p.Kind = models.PaymentKind(kind)
	p.Caller = id.Address(caller)
	p.Years = uint32(years)
	p.Fee = amount
	p.Token = id.Address(token)
	p.Receiver = id.Address(receiver)
	return &p, nil
}

func (s *state) DeletePayment(ctx context.Context, paymentID string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM pns_pending_payments WHERE id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *state) CountPayments(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pns_pending_payments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return n, nil
}
