// Package httputil holds the JSON response and request helpers shared by
// every handler.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "pns/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; the largest legitimate payload is a
// whitelist batch.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Validatable is implemented by request bodies decoded with DecodeAndPrepare.
type Validatable interface {
	Validate() error
}

// Normalizable request bodies are trimmed or lowercased before validation.
type Normalizable interface {
	Normalize()
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err's code to a status. Internal errors never leak their
// message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.Message(err)
	}
	WriteJSON(w, StatusFor(code), resp)
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeDomainNotMinted, dErrors.CodeRecordNotMinted:
		return http.StatusNotFound
	case dErrors.CodeMinted:
		return http.StatusConflict
	case dErrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case dErrors.CodeUnauthorized, dErrors.CodeUserNotWhitelisted:
		return http.StatusForbidden
	case dErrors.CodeDomainExpired, dErrors.CodeDomainNotActive,
		dErrors.CodeMaxCustomRecords, dErrors.CodeMintCountLimitReached,
		dErrors.CodeAirdropNotValid:
		return http.StatusConflict
	case dErrors.CodeContractDisabled, dErrors.CodePaymentTokenNotSet, dErrors.CodePaymentReceiverNotSet:
		return http.StatusServiceUnavailable
	case dErrors.CodeRecordDataTooLong:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeInvalidDomain, dErrors.CodeInvalidDomainWithParent, dErrors.CodeParentRecord,
		dErrors.CodeInvalidRecordClass, dErrors.CodeInvalidSubscriptionYears,
		dErrors.CodeArithmeticOverflow, dErrors.CodePaymentInfoNotValid,
		dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DecodeAndPrepare decodes the JSON body into T, normalizes and validates
// it. On failure the error reply is already written and ok is false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	if n, ok := any(&req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}
