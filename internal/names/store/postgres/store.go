// Package postgres persists the registry state in PostgreSQL. Every
// transaction first locks the single settings row, so registry commits are
// serial across all instances sharing the database.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	"pns/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Store implements ports.Store on a *sql.DB opened with the lib/pq driver.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema and seeds the settings row when absent.
func (s *Store) Migrate(ctx context.Context, defaults models.Settings) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	tiers, err := json.Marshal(defaults.FeeTiers)
	if err != nil {
		return fmt.Errorf("marshal fee tiers: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pns_settings (id, paused, whitelist_phase, payment_token, payment_receiver, fee_tiers)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		defaults.Paused, defaults.WhitelistPhase, defaults.PaymentToken.String(), defaults.PaymentReceiver.String(), tiers)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

// RunInTx runs fn in a transaction that holds the registry lock. The
// *sql.Tx is also stored in ctx for code that reads it with tx.From.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, st ports.State) error) error {
	return tx.Run(ctx, s.db, nil, func(ctx context.Context, sqlTx *sql.Tx) error {
		if _, err := sqlTx.ExecContext(ctx, `SELECT 1 FROM pns_settings WHERE id = 1 FOR UPDATE`); err != nil {
			return fmt.Errorf("lock registry: %w", err)
		}
		return fn(ctx, &state{q: sqlTx})
	})
}

// View runs fn in a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, st ports.State) error) error {
	return tx.Run(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, sqlTx *sql.Tx) error {
		return fn(ctx, &state{q: sqlTx})
	})
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
