// Package tx runs database/sql transactions and carries the open *sql.Tx in
// the context for stores further down the call.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Beginner is satisfied by *sql.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Run begins a transaction, calls fn with a context carrying it and commits
// when fn succeeds. Any error from fn rolls back and is returned unchanged.
// Read-only transactions are always rolled back.
func Run(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	sqlTx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	readOnly := opts != nil && opts.ReadOnly
	defer func() {
		if err != nil || readOnly {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(WithTx(ctx, sqlTx), sqlTx); err != nil {
		return err
	}
	if readOnly {
		return nil
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
