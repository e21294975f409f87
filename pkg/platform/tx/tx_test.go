package tx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBeginner struct{ err error }

func (b failingBeginner) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	return nil, b.err
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("nil transaction leaves context untouched", func(t *testing.T) {
		got := WithTx(ctx, nil)
		_, ok := From(got)
		assert.False(t, ok)
	})

	t.Run("stored transaction is returned", func(t *testing.T) {
		sqlTx := &sql.Tx{}
		got, ok := From(WithTx(ctx, sqlTx))
		require.True(t, ok)
		assert.Same(t, sqlTx, got)
	})
}

func TestRunBeginFailure(t *testing.T) {
	refused := errors.New("connection refused")
	called := false

	err := Run(context.Background(), failingBeginner{err: refused}, nil, func(context.Context, *sql.Tx) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}
