package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pns/internal/names/ports"
	"pns/pkg/attrs"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/audit"
	"pns/pkg/requestcontext"
)

// operation tracks one façade call for tracing and metrics.
type operation struct {
	name  string
	span  trace.Span
	start time.Time
}

func (s *Service) begin(ctx context.Context, name string, kv ...attribute.KeyValue) (context.Context, *operation) {
	ctx, span := s.tracer.Start(ctx, "names."+name, trace.WithAttributes(kv...))
	return ctx, &operation{name: name, span: span, start: time.Now()}
}

// end closes the span and counts failures by code.
func (s *Service) end(op *operation, err error) {
	if err != nil {
		code := string(dErrors.CodeOf(err))
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, code)
		op.span.SetAttributes(attribute.String("pns.error_code", code))
		if s.metrics != nil {
			s.metrics.IncrementFailure(op.name, code)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveOperation(op.name, op.start)
	}
	op.span.End()
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Actor:     attrs.ExtractString(attributes, "caller"),
		Subject:   attrs.ExtractString(attributes, "name"),
		Reason:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

// RefreshGauges reloads the state gauges from the store, so a restarted
// process reports the durable registry rather than zero.
func (s *Service) RefreshGauges(ctx context.Context) {
	s.refreshPendingPayments(ctx)
	s.refreshDomainCount(ctx)
}

func (s *Service) refreshPendingPayments(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.countPayments(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count pending payments", "error", err)
		return
	}
	s.metrics.SetPendingPayments(n)
}

func (s *Service) refreshDomainCount(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	var n int
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		n, err = st.CountDomains(ctx)
		return err
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count domains", "error", err)
		return
	}
	s.metrics.SetDomainsRegistered(n)
}

func (s *Service) incrementMinted() {
	if s.metrics != nil {
		s.metrics.IncrementMinted()
	}
}

func (s *Service) incrementRenewed() {
	if s.metrics != nil {
		s.metrics.IncrementRenewed()
	}
}

func (s *Service) incrementTransferred() {
	if s.metrics != nil {
		s.metrics.IncrementTransferred()
	}
}

func (s *Service) incrementRecordWrite(op string) {
	if s.metrics != nil {
		s.metrics.IncrementRecordWrite(op)
	}
}
