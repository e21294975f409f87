package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the name registry.
type Metrics struct {
	DomainsMinted     prometheus.Counter
	DomainRenewals    prometheus.Counter
	DomainTransfers   prometheus.Counter
	RecordWrites      *prometheus.CounterVec
	OperationFailures *prometheus.CounterVec
	PendingPayments   prometheus.Gauge
	DomainsRegistered prometheus.Gauge
	OperationDuration *prometheus.HistogramVec
}

// New registers the registry metrics with reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DomainsMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pns_domains_minted_total",
			Help: "Total number of domains minted, reclaims included",
		}),
		DomainRenewals: factory.NewCounter(prometheus.CounterOpts{
			Name: "pns_domain_renewals_total",
			Help: "Total number of committed domain renewals",
		}),
		DomainTransfers: factory.NewCounter(prometheus.CounterOpts{
			Name: "pns_domain_transfers_total",
			Help: "Total number of domain ownership transfers",
		}),
		RecordWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_record_writes_total",
			Help: "Record mutations by operation (set, delete)",
		}, []string{"op"}),
		OperationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pns_operation_failures_total",
			Help: "Failed registry operations by operation and error code",
		}, []string{"operation", "code"}),
		PendingPayments: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pns_pending_payments",
			Help: "Fee transfers awaiting confirmation",
		}),
		DomainsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pns_domains_registered",
			Help: "Domains held by the registry, expired ones included",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pns_operation_duration_seconds",
			Help:    "Duration of registry operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementMinted() {
	m.DomainsMinted.Inc()
}

func (m *Metrics) IncrementRenewed() {
	m.DomainRenewals.Inc()
}

func (m *Metrics) IncrementTransferred() {
	m.DomainTransfers.Inc()
}

func (m *Metrics) IncrementRecordWrite(op string) {
	m.RecordWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) IncrementFailure(operation, code string) {
	m.OperationFailures.WithLabelValues(operation, code).Inc()
}

// SetPendingPayments reports the current number of unconfirmed payments.
func (m *Metrics) SetPendingPayments(n int) {
	m.PendingPayments.Set(float64(n))
}

// SetDomainsRegistered reports the current size of the domain table.
func (m *Metrics) SetDomainsRegistered(n int) {
	m.DomainsRegistered.Set(float64(n))
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
