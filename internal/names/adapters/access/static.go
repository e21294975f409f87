// Package access answers the registry's admin gate.
package access

import (
	"context"

	id "pns/pkg/domain"
)

// StaticAdmins is a fixed admin set loaded at start-up.
type StaticAdmins struct {
	admins map[id.Address]struct{}
}

func NewStaticAdmins(admins ...id.Address) *StaticAdmins {
	s := &StaticAdmins{admins: make(map[id.Address]struct{}, len(admins))}
	for _, a := range admins {
		if !a.IsNil() {
			s.admins[a] = struct{}{}
		}
	}
	return s
}

func (s *StaticAdmins) IsAdmin(_ context.Context, addr id.Address) (bool, error) {
	_, ok := s.admins[addr]
	return ok, nil
}
