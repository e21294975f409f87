package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementMinted()
	m.IncrementMinted()
	m.IncrementRenewed()
	m.IncrementTransferred()
	m.IncrementRecordWrite("set")
	m.IncrementFailure("mint", "minted")
	m.SetPendingPayments(3)
	m.SetDomainsRegistered(7)
	m.ObserveOperation("mint", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DomainsMinted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DomainRenewals))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DomainTransfers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordWrites.WithLabelValues("set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationFailures.WithLabelValues("mint", "minted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PendingPayments))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.DomainsRegistered))

	count, err := testutil.GatherAndCount(reg, "pns_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) }, "separate registries never collide")
}
