// Package service is the registry façade. Every mutation runs in a single
// store transaction: either all of its checks pass and every write commits,
// or the call fails and nothing changes.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pns/internal/names/metrics"
	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/requestcontext"
)

const tracerName = "pns/internal/names/service"

// Service orchestrates minting, renewal, transfer, records and admin
// settings on top of a ports.Store.
type Service struct {
	store    ports.Store
	policy   models.Policy
	rail     ports.PaymentRail
	nft      ports.NFTLedger
	access   ports.AccessControl
	airdrops ports.AirdropStore

	// railOperator may confirm payments besides admins.
	railOperator id.Address

	logger         *slog.Logger
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithAirdropStore enables fee waivers. Without it nobody is entitled.
func WithAirdropStore(airdrops ports.AirdropStore) Option {
	return func(s *Service) {
		s.airdrops = airdrops
	}
}

// WithRailOperator lets addr confirm payments.
func WithRailOperator(addr id.Address) Option {
	return func(s *Service) {
		s.railOperator = addr
	}
}

// New constructs a Service. The policy is validated once here and never
// changes afterwards.
func New(store ports.Store, rail ports.PaymentRail, nft ports.NFTLedger, access ports.AccessControl, policy models.Policy, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if rail == nil {
		return nil, errors.New("payment rail is required")
	}
	if nft == nil {
		return nil, errors.New("nft ledger is required")
	}
	if access == nil {
		return nil, errors.New("access control is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		store:  store,
		policy: policy,
		rail:   rail,
		nft:    nft,
		access: access,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// Policy returns the static registry policy.
func (s *Service) Policy() models.Policy {
	return s.policy
}

// requireCaller returns the authenticated caller and the request time in
// Unix seconds.
func requireCaller(ctx context.Context) (id.Address, int64, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		return "", 0, dErrors.New(dErrors.CodeUnauthenticated, "caller is required")
	}
	return caller, requestcontext.Now(ctx).Unix(), nil
}

func (s *Service) requireAdmin(ctx context.Context) (id.Address, error) {
	caller, _, err := requireCaller(ctx)
	if err != nil {
		return "", err
	}
	ok, err := s.access.IsAdmin(ctx, caller)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check admin")
	}
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "admin only")
	}
	return caller, nil
}

// ensureRunning fails while the registry is paused.
func ensureRunning(ctx context.Context, st ports.SettingsStore) (models.Settings, error) {
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	if settings.Paused {
		return models.Settings{}, dErrors.New(dErrors.CodeContractDisabled, "registry is paused")
	}
	return settings, nil
}
