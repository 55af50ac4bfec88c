// Package handler exposes the registry's boundary operations over HTTP.
// It owns request decoding, caller extraction, and role gating; everything
// else is delegated to the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas/internal/fhe"
	"veritas/internal/jwtauth"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/service"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the registry operations the transport layer needs.
type Service interface {
	Mint(ctx context.Context, issuer id.PartyID, in service.MintInput) (*models.Record, error)
	GetRecord(ctx context.Context, caller id.PartyID, recordID id.RecordID) (*models.Record, error)
	GetEncryptedField(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (fhe.Handle, error)
	Compare(ctx context.Context, caller id.PartyID, in service.CompareInput) (fhe.Handle, error)
	RequestReveal(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (*models.RevealRequest, error)
	ListPendingReveals(ctx context.Context, caller id.PartyID) ([]service.PendingReveal, error)
	ResolveReveal(ctx context.Context, caller id.PartyID, res service.Resolution) (*models.RevealRequest, error)
	ReadResolved(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (string, error)
	Revoke(ctx context.Context, caller id.PartyID, recordID id.RecordID) (*models.Record, error)
}

// Handler handles transcript registry endpoints.
type Handler struct {
	logger  *slog.Logger
	records Service
}

// New creates a new registry Handler.
func New(records Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		records: records,
	}
}

// Register registers the registry routes with the chi router. The router is
// expected to already carry the authentication middleware; role gates here
// are coarse token-claim checks, while per-record authorization lives in the
// service.
func (h *Handler) Register(r chi.Router) {
	r.Route("/records", func(r chi.Router) {
		r.With(requireRole(jwtauth.RoleIssuer)).Post("/", h.handleMint)
		r.Get("/{recordID}", h.handleGetRecord)
		r.Get("/{recordID}/fields/{field}", h.handleGetField)
		r.Post("/{recordID}/compare", h.handleCompare)
		r.Post("/{recordID}/reveal", h.handleRequestReveal)
		r.Get("/{recordID}/revealed/{field}", h.handleReadResolved)
		r.With(requireRole(jwtauth.RoleIssuer)).Post("/{recordID}/revoke", h.handleRevoke)
	})
	r.Route("/oracle", func(r chi.Router) {
		r.Use(requireRole(jwtauth.RoleOracle))
		r.Get("/pending", h.handleListPendingReveals)
		r.Post("/resolutions", h.handleResolveReveal)
	})
}

// requireRole gates a route on a token role claim.
func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requestcontext.HasRole(r.Context(), role) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "missing required role: "+role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	holder, err := id.ParsePartyID(req.Holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.records.Mint(ctx, requestcontext.Caller(ctx), service.MintInput{
		RecordID: id.RecordID(req.RecordID),
		Holder:   holder,
		CID:      service.FieldInput{Handle: fhe.Handle(req.CID.Handle), Proof: fhe.Proof(req.CID.Proof)},
		Score:    service.FieldInput{Handle: fhe.Handle(req.Score.Handle), Proof: fhe.Proof(req.Score.Proof)},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "mint rejected",
			"record_id", req.RecordID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, newRecordResponse(record))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.records.GetRecord(ctx, requestcontext.Caller(ctx), recordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newRecordResponse(record))
}

func (h *Handler) handleGetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, field, err := recordFieldParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	handle, err := h.records.GetEncryptedField(ctx, requestcontext.Caller(ctx), recordID, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fieldResponse{
		RecordID: uint64(recordID),
		Field:    string(field),
		Handle:   string(handle),
	})
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	field, err := models.ParseField(req.Field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	op, ok := fhe.ParseOperator(req.Operator)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "operator must be ge or eq"))
		return
	}

	in := service.CompareInput{
		RecordID:  recordID,
		Field:     field,
		Operator:  op,
		Plaintext: req.Plaintext,
	}
	if req.OperandHandle != "" {
		operand := fhe.Handle(req.OperandHandle)
		in.OperandHandle = &operand
	}

	result, err := h.records.Compare(ctx, requestcontext.Caller(ctx), in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, compareResponse{
		RecordID:     uint64(recordID),
		Field:        string(field),
		Operator:     string(op),
		ResultHandle: string(result),
	})
}

func (h *Handler) handleRequestReveal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	field, err := models.ParseField(req.Field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reveal, err := h.records.RequestReveal(ctx, requestcontext.Caller(ctx), recordID, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Accepted, not created: resolution arrives asynchronously from the oracle.
	httputil.WriteJSON(w, http.StatusAccepted, revealResponse{
		RecordID: uint64(reveal.RecordID),
		Field:    string(reveal.Field),
		Seq:      reveal.Seq,
		Status:   string(reveal.Status),
	})
}

func (h *Handler) handleReadResolved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, field, err := recordFieldParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	value, err := h.records.ReadResolved(ctx, requestcontext.Caller(ctx), recordID, field)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resolvedResponse{
		RecordID: uint64(recordID),
		Field:    string(field),
		Value:    value,
	})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.records.Revoke(ctx, requestcontext.Caller(ctx), recordID)
	if err != nil {
		h.logger.WarnContext(ctx, "revoke rejected",
			"record_id", recordID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newRecordResponse(record))
}

func recordFieldParams(r *http.Request) (id.RecordID, models.Field, error) {
	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		return 0, "", err
	}
	field, err := models.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		return 0, "", err
	}
	return recordID, field, nil
}
