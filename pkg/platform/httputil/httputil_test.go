package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pns/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("untagged error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, io.ErrUnexpectedEOF)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "unexpected EOF")
	})

	t.Run("domain error includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeMinted, "name already minted"))

		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "minted", body["error"])
		assert.Equal(t, "name already minted", body["error_description"])
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeDomainNotMinted:          http.StatusNotFound,
		dErrors.CodeUnauthenticated:          http.StatusUnauthorized,
		dErrors.CodeUnauthorized:             http.StatusForbidden,
		dErrors.CodeInvalidSubscriptionYears: http.StatusUnprocessableEntity,
		dErrors.CodeContractDisabled:         http.StatusServiceUnavailable,
		dErrors.CodeRecordDataTooLong:        http.StatusRequestEntityTooLarge,
		dErrors.CodeBadRequest:               http.StatusBadRequest,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

type greeting struct {
	Name string `json:"name"`
}

func (g *greeting) Normalize() { g.Name = strings.TrimSpace(g.Name) }

func (g *greeting) Validate() error {
	if g.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	decode := func(body string) (*greeting, *httptest.ResponseRecorder, bool) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		g, ok := DecodeAndPrepare[greeting](w, r, logger, r.Context(), "req-1")
		return g, w, ok
	}

	t.Run("normalizes before validating", func(t *testing.T) {
		g, _, ok := decode(`{"name":"  partisia "}`)
		require.True(t, ok)
		assert.Equal(t, "partisia", g.Name)
	})

	t.Run("validation failure is written", func(t *testing.T) {
		_, w, ok := decode(`{"name":"   "}`)
		require.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		_, w, ok := decode(`{"name":`)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, w, ok := decode(`{"name":"a","extra":1}`)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
