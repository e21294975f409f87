package failover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "pns/pkg/platform/audit"
	"pns/pkg/platform/audit/store/memory"
	"pns/pkg/platform/circuit"
)

type flakyStore struct {
	err    error
	events []audit.Event
}

func (f *flakyStore) Append(_ context.Context, e audit.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	primary := &flakyStore{err: errors.New("broker down")}
	fallback := memory.NewInMemoryStore()
	breaker := circuit.New("audit", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	s := New(primary, fallback, breaker, slog.New(slog.NewTextHandler(io.Discard, nil)))

	event := audit.Event{Action: "domain_minted", Subject: "partisia"}

	require.Error(t, s.Append(ctx, event), "below threshold the failure surfaces")
	require.NoError(t, s.Append(ctx, event), "threshold reached, fallback takes the event")
	assert.True(t, breaker.IsOpen())

	recent, err := fallback.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	primary.err = nil
	require.NoError(t, s.Append(ctx, event))
	assert.False(t, breaker.IsOpen())
	assert.Len(t, primary.events, 1)
}
