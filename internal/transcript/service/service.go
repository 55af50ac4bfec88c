// Package service implements the confidential transcript registry: minting,
// encrypted field access, homomorphic comparison, the two-phase reveal
// protocol, and irreversible revocation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"veritas/internal/audit"
	"veritas/internal/fhe"
	"veritas/internal/sentinel"
	"veritas/internal/transcript/attest"
	"veritas/internal/transcript/metrics"
	"veritas/internal/transcript/models"
	"veritas/internal/transcript/store"
	"veritas/internal/transcript/tracer"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

type Option func(*Service)

// Service is the registry core. All mutations validate attestation,
// authorization, and lifecycle state before touching a store, so a failing
// call leaves every entity unchanged.
type Service struct {
	records     store.RecordStore
	reveals     store.RevealStore
	substrate   fhe.Substrate
	attestor    *attest.Validator
	oracleParty id.PartyID

	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  tracer.Tracer
	now     func() time.Time
}

func New(records store.RecordStore, reveals store.RevealStore, substrate fhe.Substrate, attestor *attest.Validator, oracleParty id.PartyID, opts ...Option) *Service {
	svc := &Service{
		records:     records,
		reveals:     reveals,
		substrate:   substrate,
		attestor:    attestor,
		oracleParty: oracleParty,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used to span boundary operations.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithAuditPublisher sets the audit event sink.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// FieldInput is one encrypted field supplied at mint: an externally produced
// handle plus the attestation proof binding it to the minting call.
type FieldInput struct {
	Handle fhe.Handle
	Proof  fhe.Proof
}

// MintInput carries everything a mint needs. The caller is the issuer.
type MintInput struct {
	RecordID id.RecordID
	Holder   id.PartyID
	CID      FieldInput
	Score    FieldInput
}

// Mint creates an Active record with both encrypted handles admitted through
// the attestation validator. Fails with CodeLifecycle if the record ID is
// already taken; the existing record is unchanged.
func (s *Service) Mint(ctx context.Context, issuer id.PartyID, in MintInput) (record *models.Record, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMint,
		tracer.Int64(tracer.AttrRecordID, int64(in.RecordID)))
	defer func() { span.End(err) }()

	if _, err := s.records.FindByID(ctx, in.RecordID); err == nil {
		return nil, dErrors.New(dErrors.CodeLifecycle, "record id already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check record id")
	}

	record, err = models.NewRecord(in.RecordID, issuer, in.Holder, in.CID.Handle, in.Score.Handle, s.now().UTC())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid mint input")
	}

	err = s.attestor.Admit(in.RecordID, issuer,
		attest.Input{Field: models.FieldCID, Handle: in.CID.Handle, Proof: in.CID.Proof},
		attest.Input{Field: models.FieldScore, Handle: in.Score.Handle, Proof: in.Score.Proof},
	)
	if err != nil {
		return nil, err
	}

	if err = s.records.Create(ctx, record); err != nil {
		// A record that never persisted must not keep its handles bound.
		s.attestor.Release(in.RecordID, in.CID.Handle, in.Score.Handle)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeLifecycle, "record id already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist record")
	}

	if s.metrics != nil {
		s.metrics.IncrementMinted()
	}
	s.emitAudit(ctx, issuer, audit.EventRecordMinted, record.ID, "", "")
	s.logger.InfoContext(ctx, "record minted",
		"record_id", record.ID,
		"issuer", issuer.String(),
		"holder", record.Holder.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// GetRecord returns record metadata. Issuer and holder only; the encrypted
// handles themselves go through GetEncryptedField.
func (s *Service) GetRecord(ctx context.Context, caller id.PartyID, recordID id.RecordID) (*models.Record, error) {
	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(record, caller); err != nil {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, recordID, "", "metadata")
		return nil, err
	}
	return record, nil
}

// GetEncryptedField returns the ciphertext handle for a field. Issuer and
// holder only; refused once the record is revoked.
func (s *Service) GetEncryptedField(ctx context.Context, caller id.PartyID, recordID id.RecordID, field models.Field) (handle fhe.Handle, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFieldRead,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
		tracer.String(tracer.AttrField, string(field)))
	defer func() { span.End(err) }()

	record, err := s.findRecord(ctx, recordID)
	if err != nil {
		return "", err
	}
	if err = requireParticipant(record, caller); err != nil {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, recordID, string(field), "field read")
		return "", err
	}
	if !record.IsActive() {
		return "", dErrors.New(dErrors.CodeLifecycle, "record is revoked")
	}

	handle, err = record.Handle(field)
	if err != nil {
		return "", err
	}

	s.emitAudit(ctx, caller, audit.EventFieldAccessed, recordID, string(field), "")
	return handle, nil
}

// Revoke irreversibly transitions a record to Revoked. Issuer only.
func (s *Service) Revoke(ctx context.Context, caller id.PartyID, recordID id.RecordID) (record *models.Record, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevoke,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)))
	defer func() { span.End(err) }()

	record, err = s.findRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Issuer != caller {
		s.emitAudit(ctx, caller, audit.EventAccessDenied, recordID, "", "revoke")
		return nil, dErrors.New(dErrors.CodeForbidden, "only the issuer may revoke a record")
	}
	if err = record.Revoke(s.now().UTC()); err != nil {
		return nil, dErrors.New(dErrors.CodeLifecycle, "record is already revoked")
	}
	if err = s.records.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist revocation")
	}

	if s.metrics != nil {
		s.metrics.IncrementRevoked()
	}
	s.emitAudit(ctx, caller, audit.EventRecordRevoked, recordID, "", "")
	s.logger.InfoContext(ctx, "record revoked",
		"record_id", recordID,
		"issuer", caller.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

func (s *Service) findRecord(ctx context.Context, recordID id.RecordID) (*models.Record, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return record, nil
}

func (s *Service) emitAudit(ctx context.Context, party id.PartyID, action audit.AuditEvent, recordID id.RecordID, field, detail string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: s.now().UTC(),
		Party:     party.String(),
		Action:    string(action),
		RecordID:  uint64(recordID),
		Field:     field,
		Detail:    detail,
		Device:    requestcontext.Device(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "error", err, "action", action)
	}
}
