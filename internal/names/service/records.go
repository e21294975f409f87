package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	"pns/internal/names/records"
	"pns/pkg/platform/audit"
)

// SetRecord writes a record on a domain the caller owns.
func (s *Service) SetRecord(ctx context.Context, name string, class models.RecordClass, data []byte) (err error) {
	name = models.NormalizeName(name)
	ctx, op := s.begin(ctx, "set_record", attribute.String("pns.name", name), attribute.String("pns.class", class.String()))
	defer func() { s.end(op, err) }()

	caller, now, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if _, err := ensureRunning(ctx, st); err != nil {
			return err
		}
		_, err := records.New(st, s.policy).Set(ctx, name, class, data, caller, now)
		return err
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventRecordSet, "name", name, "caller", caller, "class", class.String(), "size", len(data))
	s.incrementRecordWrite("set")
	return nil
}

// DeleteRecord removes a record from a domain the caller owns.
func (s *Service) DeleteRecord(ctx context.Context, name string, class models.RecordClass) (err error) {
	name = models.NormalizeName(name)
	ctx, op := s.begin(ctx, "delete_record", attribute.String("pns.name", name), attribute.String("pns.class", class.String()))
	defer func() { s.end(op, err) }()

	caller, _, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, st ports.State) error {
		if _, err := ensureRunning(ctx, st); err != nil {
			return err
		}
		return records.New(st, s.policy).Delete(ctx, name, class, caller)
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventRecordDeleted, "name", name, "caller", caller, "class", class.String())
	s.incrementRecordWrite("delete")
	return nil
}

// Resolve reads a record. Expired domains still resolve.
func (s *Service) Resolve(ctx context.Context, name string, class models.RecordClass) ([]byte, error) {
	var rec *models.Record
	err := s.store.View(ctx, func(ctx context.Context, st ports.State) error {
		var err error
		rec, err = records.New(st, s.policy).Get(ctx, name, class)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}
