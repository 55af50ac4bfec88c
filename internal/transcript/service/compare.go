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
)

// CompareInput describes one homomorphic predicate evaluation. Exactly one
// of Plaintext or OperandHandle must be set.
type CompareInput struct {
	RecordID      id.RecordID
	Field         models.Field
	Operator      fhe.Operator
	Plaintext     *uint64
	OperandHandle *fhe.Handle
}

// Compare evaluates a threshold or equality predicate over an encrypted
// field. Any authenticated caller may compare: the result is itself a
// ciphertext handle, so the predicate outcome is not disclosed here. The
// engine never decrypts.
func (s *Service) Compare(ctx context.Context, caller id.PartyID, in CompareInput) (result fhe.Handle, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCompare,
		tracer.Int64(tracer.AttrRecordID, int64(in.RecordID)),
		tracer.String(tracer.AttrField, string(in.Field)),
		tracer.String(tracer.AttrOperator, string(in.Operator)))
	defer func() { span.End(err) }()

	if caller.IsNil() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	operand, err := in.operand()
	if err != nil {
		return "", err
	}

	record, err := s.findRecord(ctx, in.RecordID)
	if err != nil {
		return "", err
	}
	if !record.IsActive() {
		return "", dErrors.New(dErrors.CodeLifecycle, "record is revoked")
	}

	handle, err := record.Handle(in.Field)
	if err != nil {
		return "", err
	}

	result, err = s.substrate.Compare(ctx, handle, in.Operator, operand)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrInvalidInput):
			return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "comparison rejected by substrate")
		case errors.Is(err, sentinel.ErrNotFound):
			return "", dErrors.Wrap(err, dErrors.CodeNotFound, "unknown operand handle")
		default:
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "substrate comparison failed")
		}
	}

	if s.metrics != nil {
		s.metrics.IncrementComparisons()
	}
	s.emitAudit(ctx, caller, audit.EventComparisonRun, in.RecordID, string(in.Field), string(in.Operator))
	return result, nil
}

func (in CompareInput) operand() (fhe.Operand, error) {
	switch {
	case in.Plaintext != nil && in.OperandHandle != nil:
		return fhe.Operand{}, dErrors.New(dErrors.CodeInvalidInput, "operand must be plaintext or handle, not both")
	case in.Plaintext != nil:
		return fhe.PlaintextOperand(*in.Plaintext), nil
	case in.OperandHandle != nil:
		return fhe.HandleOperand(*in.OperandHandle), nil
	default:
		return fhe.Operand{}, dErrors.New(dErrors.CodeInvalidInput, "comparison operand is required")
	}
}
