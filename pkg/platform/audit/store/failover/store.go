// Package failover writes audit events to a primary store and diverts them
// to a fallback while the primary keeps failing.
package failover

import (
	"context"
	"log/slog"

	audit "pns/pkg/platform/audit"
	"pns/pkg/platform/circuit"
)

// Store appends to primary; once the breaker opens, failed appends land in
// fallback instead of being returned to the caller.
type Store struct {
	primary  audit.Store
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func New(primary, fallback audit.Store, breaker *circuit.Breaker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	err := s.primary.Append(ctx, event)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "audit primary recovered", "breaker", s.breaker.Name())
		}
		return nil
	}

	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "audit primary failing, diverting to fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if useFallback {
		return s.fallback.Append(ctx, event)
	}
	return err
}
