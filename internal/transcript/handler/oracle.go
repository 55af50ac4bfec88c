package handler

import (
	"encoding/json"
	"net/http"

	oraclecontract "veritas/contracts/oracle"

	"veritas/internal/fhe"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/service"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// handleListPendingReveals serves the oracle's work queue in the shared
// oracle wire contract.
func (h *Handler) handleListPendingReveals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pending, err := h.records.ListPendingReveals(ctx, requestcontext.Caller(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]oraclecontract.PendingReveal, 0, len(pending))
	for _, p := range pending {
		out = append(out, oraclecontract.PendingReveal{
			RecordID: uint64(p.Request.RecordID),
			Field:    string(p.Request.Field),
			Seq:      p.Request.Seq,
			Handle:   string(p.Handle),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// handleResolveReveal accepts the oracle's callback, speaking the shared
// oracle wire contract.
func (h *Handler) handleResolveReveal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req oraclecontract.ResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	field, err := models.ParseField(req.Field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resolved, err := h.records.ResolveReveal(ctx, requestcontext.Caller(ctx), service.Resolution{
		RecordID:    id.RecordID(req.RecordID),
		Field:       field,
		Seq:         req.Seq,
		Plaintext:   req.Plaintext,
		Attestation: fhe.Proof(req.Attestation),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolution rejected",
			"record_id", req.RecordID,
			"seq", req.Seq,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, revealResponse{
		RecordID: uint64(resolved.RecordID),
		Field:    string(resolved.Field),
		Seq:      resolved.Seq,
		Status:   string(resolved.Status),
	})
}
