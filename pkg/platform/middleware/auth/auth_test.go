package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "pns/pkg/domain"
	"pns/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

const address = "00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"

func serve(t *testing.T, v JWTValidator, header string) (*httptest.ResponseRecorder, id.Address) {
	t.Helper()
	var seen id.Address
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Caller(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := httptest.NewRequest(http.MethodPost, "/domains", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	RequireAuth(v, logger)(next).ServeHTTP(w, r)
	return w, seen
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token injects the caller", func(t *testing.T) {
		w, caller := serve(t, stubValidator{claims: &JWTClaims{Address: address}}, "Bearer token")
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, id.Address(address), caller)
	})

	t.Run("missing header", func(t *testing.T) {
		w, caller := serve(t, stubValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, caller.IsNil())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w, _ := serve(t, stubValidator{claims: &JWTClaims{Address: address}}, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w, _ := serve(t, stubValidator{err: errors.New("expired")}, "Bearer token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthenticated")
	})

	t.Run("malformed address claim", func(t *testing.T) {
		w, _ := serve(t, stubValidator{claims: &JWTClaims{Address: "not-an-address"}}, "Bearer token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
