// Package handler exposes the name registry over HTTP. Reads are public;
// every mutation requires a bearer token whose address claim is the caller.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	"pns/internal/names/service"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
	"pns/pkg/platform/httputil"
	authmw "pns/pkg/platform/middleware/auth"
	"pns/pkg/requestcontext"
)

// Service is the registry surface the handler needs.
type Service interface {
	Mint(ctx context.Context, name, parent string, years uint32) (*service.Outcome, error)
	Renew(ctx context.Context, name string, years uint32) (*service.Outcome, error)
	ConfirmPayment(ctx context.Context, paymentID string, success bool) (*service.Outcome, error)
	Transfer(ctx context.Context, name string, newOwner id.Address) error
	Domain(ctx context.Context, name string) (*models.Domain, models.Status, error)
	Quote(ctx context.Context, name string, years uint32) (uint64, error)
	MintCount(ctx context.Context, addr id.Address) (uint32, error)

	SetRecord(ctx context.Context, name string, class models.RecordClass, data []byte) error
	DeleteRecord(ctx context.Context, name string, class models.RecordClass) error
	Resolve(ctx context.Context, name string, class models.RecordClass) ([]byte, error)

	SetPaymentInfo(ctx context.Context, token, receiver id.Address) error
	SetFeeTiers(ctx context.Context, tiers fee.Tiers) error
	SetPaused(ctx context.Context, paused bool) error
	SetWhitelistPhase(ctx context.Context, on bool) error
	AddToWhitelist(ctx context.Context, raw []string) ([]id.Address, error)
	RemoveFromWhitelist(ctx context.Context, addr id.Address) error
	GrantAirdrop(ctx context.Context, addr id.Address) error
}

// Handler wires registry endpoints to the service.
type Handler struct {
	service       Service
	logger        *slog.Logger
	jwtValidator  authmw.JWTValidator
	tokenDecimals int32
}

// New constructs a handler. tokenDecimals scales fees for display.
func New(svc Service, logger *slog.Logger, jwtValidator authmw.JWTValidator, tokenDecimals int32) *Handler {
	return &Handler{
		service:       svc,
		logger:        logger,
		jwtValidator:  jwtValidator,
		tokenDecimals: tokenDecimals,
	}
}

// Register mounts the registry endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/domains/{name}", h.HandleGetDomain)
	r.Get("/domains/{name}/records/{class}", h.HandleGetRecord)
	r.Get("/fees/quote", h.HandleQuote)
	r.Get("/accounts/{address}/mint-count", h.HandleMintCount)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwtValidator, h.logger))

		r.Post("/domains", h.HandleMint)
		r.Post("/domains/{name}/renew", h.HandleRenew)
		r.Post("/domains/{name}/transfer", h.HandleTransfer)
		r.Put("/domains/{name}/records/{class}", h.HandleSetRecord)
		r.Delete("/domains/{name}/records/{class}", h.HandleDeleteRecord)
		r.Post("/payments/{id}/confirm", h.HandleConfirmPayment)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/payment-info", h.HandleSetPaymentInfo)
			r.Put("/fee-tiers", h.HandleSetFeeTiers)
			r.Put("/paused", h.HandleSetPaused)
			r.Put("/whitelist-phase", h.HandleSetWhitelistPhase)
			r.Post("/whitelist", h.HandleAddToWhitelist)
			r.Delete("/whitelist/{address}", h.HandleRemoveFromWhitelist)
			r.Post("/airdrops", h.HandleGrantAirdrop)
		})
	})
}

// HandleMint handles POST /domains.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	out, err := h.service.Mint(ctx, req.Name, req.Parent, req.Years)
	if err != nil {
		h.fail(ctx, w, "mint failed", err, "name", req.Name)
		return
	}
	h.writeOutcome(w, http.StatusCreated, out)
}

// HandleRenew handles POST /domains/{name}/renew.
func (h *Handler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	req, ok := httputil.DecodeAndPrepare[RenewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	out, err := h.service.Renew(ctx, name, req.Years)
	if err != nil {
		h.fail(ctx, w, "renew failed", err, "name", name)
		return
	}
	h.writeOutcome(w, http.StatusOK, out)
}

// HandleTransfer handles POST /domains/{name}/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.Transfer(ctx, name, req.parsedNewOwner); err != nil {
		h.fail(ctx, w, "transfer failed", err, "name", name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetDomain handles GET /domains/{name}.
func (h *Handler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	d, status, err := h.service.Domain(ctx, name)
	if err != nil {
		h.fail(ctx, w, "domain lookup failed", err, "name", name)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDomainResponse(d, status))
}

// HandleSetRecord handles PUT /domains/{name}/records/{class}.
func (h *Handler) HandleSetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	class, err := models.ParseRecordClass(chi.URLParam(r, "class"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetRecordRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetRecord(ctx, name, class, req.Data); err != nil {
		h.fail(ctx, w, "record update failed", err, "name", name, "class", class)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteRecord handles DELETE /domains/{name}/records/{class}.
func (h *Handler) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	class, err := models.ParseRecordClass(chi.URLParam(r, "class"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteRecord(ctx, name, class); err != nil {
		h.fail(ctx, w, "record delete failed", err, "name", name, "class", class)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetRecord handles GET /domains/{name}/records/{class}.
func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	class, err := models.ParseRecordClass(chi.URLParam(r, "class"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	data, err := h.service.Resolve(ctx, name, class)
	if err != nil {
		h.fail(ctx, w, "record lookup failed", err, "name", name, "class", class)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &RecordResponse{Class: class.String(), Data: data})
}

// HandleQuote handles GET /fees/quote?name=&years=.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.URL.Query().Get("name")
	years, err := strconv.ParseUint(r.URL.Query().Get("years"), 10, 32)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidSubscriptionYears, "years must be a positive integer"))
		return
	}
	amount, err := h.service.Quote(ctx, name, uint32(years))
	if err != nil {
		h.fail(ctx, w, "quote failed", err, "name", name)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &QuoteResponse{
		Name:        models.NormalizeName(name),
		Years:       uint32(years),
		Fee:         amount,
		TokenAmount: tokenAmount(amount, h.tokenDecimals),
	})
}

// HandleMintCount handles GET /accounts/{address}/mint-count.
func (h *Handler) HandleMintCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.MintCount(ctx, addr)
	if err != nil {
		h.fail(ctx, w, "mint count lookup failed", err, "address", addr)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &MintCountResponse{Address: addr.String(), MintCount: n})
}

// HandleConfirmPayment handles POST /payments/{id}/confirm.
func (h *Handler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[ConfirmPaymentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	out, err := h.service.ConfirmPayment(ctx, paymentID, *req.Success)
	if err != nil {
		h.fail(ctx, w, "payment confirmation failed", err, "payment_id", paymentID)
		return
	}
	resp := &ConfirmPaymentResponse{PaymentID: paymentID, Status: string(models.PaymentFailed)}
	if *req.Success {
		resp.Status = string(models.PaymentSucceeded)
		if out.Domain != nil {
			resp.Domain = toDomainResponse(out.Domain, "")
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetPaymentInfo handles PUT /admin/payment-info.
func (h *Handler) HandleSetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PaymentInfoRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.writeAdmin(ctx, w, "set payment info", h.service.SetPaymentInfo(ctx, req.parsedToken, req.parsedReceiver))
}

// HandleSetFeeTiers handles PUT /admin/fee-tiers.
func (h *Handler) HandleSetFeeTiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[FeeTiersRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.writeAdmin(ctx, w, "set fee tiers", h.service.SetFeeTiers(ctx, req.ParsedTiers()))
}

// HandleSetPaused handles PUT /admin/paused.
func (h *Handler) HandleSetPaused(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ToggleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.writeAdmin(ctx, w, "set paused", h.service.SetPaused(ctx, *req.Enabled))
}

// HandleSetWhitelistPhase handles PUT /admin/whitelist-phase.
func (h *Handler) HandleSetWhitelistPhase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ToggleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.writeAdmin(ctx, w, "set whitelist phase", h.service.SetWhitelistPhase(ctx, *req.Enabled))
}

// HandleAddToWhitelist handles POST /admin/whitelist.
func (h *Handler) HandleAddToWhitelist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[WhitelistRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	added, err := h.service.AddToWhitelist(ctx, req.Addresses)
	if err != nil {
		h.fail(ctx, w, "whitelist update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWhitelistResponse(added))
}

// HandleRemoveFromWhitelist handles DELETE /admin/whitelist/{address}.
func (h *Handler) HandleRemoveFromWhitelist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeAdmin(ctx, w, "remove from whitelist", h.service.RemoveFromWhitelist(ctx, addr))
}

// HandleGrantAirdrop handles POST /admin/airdrops.
func (h *Handler) HandleGrantAirdrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AirdropRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.writeAdmin(ctx, w, "grant airdrop", h.service.GrantAirdrop(ctx, req.parsedAddress))
}

// writeOutcome answers 202 with the pending payment, or status with the
// committed domain.
func (h *Handler) writeOutcome(w http.ResponseWriter, status int, out *service.Outcome) {
	if out.Pending() {
		httputil.WriteJSON(w, http.StatusAccepted, toPaymentResponse(out.Payment, h.tokenDecimals))
		return
	}
	if out.Domain == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, status, toDomainResponse(out.Domain, ""))
}

func (h *Handler) writeAdmin(ctx context.Context, w http.ResponseWriter, action string, err error) {
	if err != nil {
		h.fail(ctx, w, action+" failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail logs at warn for caller errors and at error for internal ones, then
// writes the error reply.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, kv ...any) {
	attrs := append([]any{
		"request_id", requestcontext.RequestID(ctx),
		"caller", requestcontext.Caller(ctx),
		"error", err,
	}, kv...)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
