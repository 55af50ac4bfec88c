package service

import (
	"context"
	"errors"

	"veritas/internal/audit"
	"veritas/internal/fhe"
	"veritas/internal/sentinel"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/tracer"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

// RequestReveal opens a pending reveal for the record's document pointer.
// Holder only. Only the cid field is revealable; the score stays encrypted
// for the lifetime of the record. Re-requesting after a prior resolution is
// allowed; a second request while one is pending fails with CodeProtocol.
func (s *Service) RequestReveal(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (req *models.RevealRequest, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevealRequest,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
		tracer.String(tracer.AttrField, string(field)))
	defer func() { span.End(err) }()

	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err = requireHolder(record, caller); err != nil {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, recordID, string(field), "reveal request")
		return nil, err
	}
	if field != models.FieldCID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the document pointer may be revealed")
	}
	if !record.IsActive() {
		return nil, dErrors.New(dErrors.CodeLifecycle, "record is revoked")
	}

	req = &models.RevealRequest{
		RecordID:    recordID,
		Field:       field,
		Requester:   caller,
		RequestedAt: s.now().UTC(),
	}
	if err = s.reveals.CreatePending(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeProtocol, "a reveal request is already pending")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist reveal request")
	}

	if s.metrics != nil {
		s.metrics.IncrementRevealsRequested()
	}
	s.emitAudit(ctx, caller, audit.EventRevealRequested, recordID, string(field), "")
	s.logger.InfoContext(ctx, "reveal requested",
		"record_id", recordID,
		"field", field,
		"seq", req.Seq,
		"request_id", requestcontext.RequestID(ctx),
	)
	return req, nil
}

// PendingReveal pairs a pending request with the ciphertext handle the
// oracle must decrypt. This is the oracle's work queue item; it carries no
// plaintext and no party identities.
type PendingReveal struct {
	Request *models.RevealRequest
	Handle  fhe.Handle
}

// ListPendingReveals returns all currently pending reveal requests with
// their ciphertext handles, oldest first. Oracle only.
func (s *Service) ListPendingReveals(ctx context.Context, caller id.PartyID) ([]PendingReveal, error) {
	if err := s.requireOracle(caller); err != nil {
		return nil, err
	}

	pending, err := s.reveals.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reveal requests")
	}

	out := make([]PendingReveal, 0, len(pending))
	for _, req := range pending {
		record, err := s.findRecord(ctx, req.RecordID)
		if err != nil {
			return nil, err
		}
		// A request still pending when its record was revoked is dead: the
		// oracle must never decrypt for it.
		if !record.IsActive() {
			continue
		}
		handle, err := record.Handle(req.Field)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingReveal{Request: req, Handle: handle})
	}
	return out, nil
}

// Resolution is the oracle's answer to a pending reveal request.
type Resolution struct {
	RecordID    id.RecordID
	Field       models.Field
	Seq         uint64
	Plaintext   string
	Attestation fhe.Proof
}

// ResolveReveal accepts the oracle callback. The sequence number must match
// the currently pending request exactly; anything else is stale and leaves
// the pending request untouched. The resolution attestation is verified
// against the record's own handle before any state changes.
func (s *Service) ResolveReveal(ctx context.Context, caller id.PartyID, res Resolution) (req *models.RevealRequest, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevealResolve,
		tracer.Int64(tracer.AttrRecordID, int64(res.RecordID)),
		tracer.String(tracer.AttrField, string(res.Field)))
	defer func() { span.End(err) }()

	if err = s.requireOracle(caller); err != nil {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, res.RecordID, string(res.Field), "reveal resolve")
		return nil, err
	}

	record, err := s.findRecord(ctx, res.RecordID)
	if err != nil {
		return nil, err
	}
	// Revocation permanently blocks disclosure; only a reveal completed
	// before it survives. A request still pending at revocation stays
	// unresolved forever.
	if !record.IsActive() {
		return nil, dErrors.New(dErrors.CodeLifecycle, "record is revoked")
	}

	req, err = s.reveals.FindPending(ctx, res.RecordID, res.Field)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeProtocol, "no pending reveal request")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reveal request")
	}
	if req.Seq != res.Seq {
		return nil, dErrors.New(dErrors.CodeProtocol, "resolution sequence number is stale")
	}

	handle, err := record.Handle(res.Field)
	if err != nil {
		return nil, err
	}
	if err = s.substrate.VerifyResolution(handle, res.Plaintext, res.Attestation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeAttestation, "resolution attestation failed to verify")
	}

	now := s.now().UTC()
	if err = req.Resolve(now); err != nil {
		return nil, err
	}
	if err = s.reveals.Update(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist resolution")
	}
	record.CacheRevealedCID(res.Plaintext, now)
	if err = s.records.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cache revealed value")
	}

	if s.metrics != nil {
		s.metrics.ObserveRevealResolved(req.RequestedAt)
	}
	s.emitAudit(ctx, caller, audit.EventRevealResolved, res.RecordID, string(res.Field), "")
	s.logger.InfoContext(ctx, "reveal resolved",
		"record_id", res.RecordID,
		"field", res.Field,
		"seq", res.Seq,
		"request_id", requestcontext.RequestID(ctx),
	)
	return req, nil
}

// ReadResolved returns the cached plaintext from a completed reveal. Holder
// only. A disclosure that completed before revocation stays readable after
// it: that disclosure already legitimately occurred.
func (s *Service) ReadResolved(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (string, error) {
	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return "", err
	}
	if err := requireHolder(record, caller); err != nil {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, recordID, string(field), "reveal read")
		return "", err
	}
	if field != models.FieldCID {
		return "", dErrors.New(dErrors.CodeForbidden, "only the document pointer may be revealed")
	}
	if record.RevealedCID == nil {
		return "", dErrors.New(dErrors.CodeProtocol, "reveal is not yet resolved")
	}

	s.emitAudit(ctx, caller, audit.EventRevealRead, recordID, string(field), "")
	return *record.RevealedCID, nil
}
