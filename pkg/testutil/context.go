package testutil

import (
	"context"
	"net/http"
	"time"

	id "pns/pkg/domain"
	"pns/pkg/requestcontext"
)

// CallerContext returns a context carrying caller and a pinned request time,
// the state RequireAuth and the requesttime middleware would leave behind.
func CallerContext(ctx context.Context, caller id.Address, now time.Time) context.Context {
	if !caller.IsNil() {
		ctx = requestcontext.WithCaller(ctx, caller)
	}
	return requestcontext.WithTime(ctx, now)
}

// WithCaller authenticates req as caller without a token.
func WithCaller(req *http.Request, caller id.Address) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}
