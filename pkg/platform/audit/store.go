package audit

import "context"

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
