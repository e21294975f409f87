package nft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/tx"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresLedger keeps token owners in pns_nft_owners. Calls made inside a
// registry transaction join it through the *sql.Tx carried in ctx, so an
// aborted mint or transfer leaves no token behind.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) conn(ctx context.Context) queryer {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return l.db
}

func (l *PostgresLedger) RecordMint(ctx context.Context, tokenID string, owner id.Address) error {
	_, err := l.conn(ctx).ExecContext(ctx,
		`INSERT INTO pns_nft_owners (token_id, owner) VALUES ($1, $2)`, tokenID, owner.String())
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return dErrors.Newf(dErrors.CodeMinted, "token %s already exists", tokenID)
	}
	if err != nil {
		return fmt.Errorf("record nft mint: %w", err)
	}
	return nil
}

func (l *PostgresLedger) RecordTransfer(ctx context.Context, tokenID string, newOwner id.Address) error {
	res, err := l.conn(ctx).ExecContext(ctx,
		`UPDATE pns_nft_owners SET owner = $2 WHERE token_id = $1`, tokenID, newOwner.String())
	if err != nil {
		return fmt.Errorf("record nft transfer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record nft transfer: %w", err)
	}
	if n == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "token %s does not exist", tokenID)
	}
	return nil
}

func (l *PostgresLedger) OwnerOf(ctx context.Context, tokenID string) (id.Address, error) {
	var owner string
	err := l.conn(ctx).QueryRowContext(ctx,
		`SELECT owner FROM pns_nft_owners WHERE token_id = $1`, tokenID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", dErrors.Newf(dErrors.CodeNotFound, "token %s does not exist", tokenID)
	}
	if err != nil {
		return "", fmt.Errorf("nft owner: %w", err)
	}
	return id.Address(owner), nil
}
