package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RRPsystem/wbctx/internal/http/response"
	"github.com/RRPsystem/wbctx/internal/observability"
	"github.com/RRPsystem/wbctx/internal/security"
	"github.com/RRPsystem/wbctx/internal/service"
	"github.com/RRPsystem/wbctx/internal/wbctx"
)

type ContextHandler struct {
	mintSvc   *service.MintService
	redeemSvc *service.RedeemService
}

func NewContextHandler(mintSvc *service.MintService, redeemSvc *service.RedeemService) *ContextHandler {
	return &ContextHandler{mintSvc: mintSvc, redeemSvc: redeemSvc}
}

// Mint handles POST /wbctx-mint.
func (h *ContextHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var req wbctx.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordMintEvent(r.Context(), "bad_request")
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.mintSvc.Mint(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			observability.RecordMintEvent(r.Context(), "validation_error")
			response.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, security.ErrKeyImport), errors.Is(err, security.ErrSigning):
			observability.RecordMintEvent(r.Context(), "signing_error")
			response.Error(w, http.StatusInternalServerError, "context signing is not available")
		default:
			observability.RecordMintEvent(r.Context(), "storage_error")
			response.Error(w, http.StatusInternalServerError, "failed to store context")
		}
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:  "wbctx.mint",
		BrandID:    req.BrandID,
		TargetType: "context",
		TargetID:   res.CtxID,
		Action:     "mint",
		Outcome:    "success",
		Reason:     "context_minted",
	}, "type", req.Type, "ephemeral", req.IsEphemeral(), "expires_at", res.ExpiresAt)
	observability.RecordMintEvent(r.Context(), "success")
	response.JSON(w, http.StatusOK, res)
}

// Redirect handles GET /wbctx-redirect/{ctx_id}: the shortlink landing.
func (h *ContextHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ctx_id")
	if !validShortID(id) {
		observability.RecordRedeemEvent(r.Context(), "bad_request")
		response.PlainError(w, http.StatusBadRequest, "invalid context id")
		return
	}

	location, err := h.redeemSvc.Redeem(r.Context(), id, r.URL.Query(), r.URL.Fragment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRedeemNotFound):
			observability.RecordRedeemEvent(r.Context(), "not_found")
			response.PlainError(w, http.StatusNotFound, "unknown link")
		case errors.Is(err, service.ErrRedeemGone):
			observability.RecordRedeemEvent(r.Context(), "gone")
			response.PlainError(w, http.StatusGone, "link expired or already used")
		default:
			observability.RecordRedeemEvent(r.Context(), "error")
			response.PlainError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	observability.RecordRedeemEvent(r.Context(), "success")
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusFound)
}

// Fetch handles GET /wbctx-fetch/{ctx_id}: the builder app's follow-up
// call that turns a short id back into the full context record.
func (h *ContextHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ctx_id")
	if !validShortID(id) {
		observability.RecordFetchEvent(r.Context(), "bad_request")
		response.Error(w, http.StatusBadRequest, "invalid context id")
		return
	}

	rec, err := h.redeemSvc.Fetch(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRedeemNotFound):
			observability.RecordFetchEvent(r.Context(), "not_found")
			response.Error(w, http.StatusNotFound, "unknown context")
		case errors.Is(err, service.ErrRedeemGone):
			observability.RecordFetchEvent(r.Context(), "gone")
			response.Error(w, http.StatusGone, "context expired or already used")
		default:
			observability.RecordFetchEvent(r.Context(), "error")
			response.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	observability.RecordFetchEvent(r.Context(), "success")
	w.Header().Set("Cache-Control", "no-store")
	response.JSON(w, http.StatusOK, rec)
}

func validShortID(id string) bool {
	if len(id) != security.ShortIDLength {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
