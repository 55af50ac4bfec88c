package models

import (
	"time"

	"veritas/internal/fhe"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Field names an encrypted field of a record.
type Field string

const (
	// FieldCID is the encrypted document pointer (an IPFS-style CID).
	FieldCID Field = "cid"
	// FieldScore is the encrypted grade score, in hundredths (3.52 -> 352).
	FieldScore Field = "score"
)

// ParseField validates a field name at trust boundaries.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldCID, FieldScore:
		return Field(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown field")
}

// RecordStatus is the record lifecycle state. Active -> Revoked is the only
// transition and it is terminal.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusRevoked RecordStatus = "revoked"
)

// Record is an issued transcript bound to a holder. The encrypted handles
// are set exactly once at mint and never reassigned; issuer and holder are
// immutable after mint. Records are never deleted; a revoked record stays
// addressable for provenance but rejects further field access.
type Record struct {
	ID          id.RecordID  `json:"id"`
	Issuer      id.PartyID   `json:"issuer"`
	Holder      id.PartyID   `json:"holder"`
	Status      RecordStatus `json:"status"`
	CIDHandle   fhe.Handle   `json:"-"`
	ScoreHandle fhe.Handle   `json:"-"`
	// RevealedCID caches the plaintext document pointer once the oracle has
	// resolved a reveal. It survives revocation: that disclosure already
	// legitimately occurred.
	RevealedCID *string    `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// NewRecord constructs an Active record with both encrypted handles set.
func NewRecord(recordID id.RecordID, issuer, holder id.PartyID, cidHandle, scoreHandle fhe.Handle, now time.Time) (*Record, error) {
	if issuer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record issuer cannot be empty")
	}
	if holder.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record holder cannot be empty")
	}
	if cidHandle == "" || scoreHandle == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record handles cannot be empty")
	}
	return &Record{
		ID:          recordID,
		Issuer:      issuer,
		Holder:      holder,
		Status:      StatusActive,
		CIDHandle:   cidHandle,
		ScoreHandle: scoreHandle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *Record) IsActive() bool {
	return r.Status == StatusActive
}

// Revoke transitions the record to revoked status. The transition is
// irreversible. Returns an error if the record is already revoked.
func (r *Record) Revoke(now time.Time) error {
	if !r.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is already revoked")
	}
	r.Status = StatusRevoked
	r.RevokedAt = &now
	r.UpdatedAt = now
	return nil
}

// Handle returns the encrypted handle for the given field.
func (r *Record) Handle(field Field) (fhe.Handle, error) {
	switch field {
	case FieldCID:
		return r.CIDHandle, nil
	case FieldScore:
		return r.ScoreHandle, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown field")
}

// CacheRevealedCID stores the oracle-supplied plaintext document pointer.
func (r *Record) CacheRevealedCID(value string, now time.Time) {
	r.RevealedCID = &value
	r.UpdatedAt = now
}

// RevealStatus is the reveal-request state. NoRequest is represented by the
// absence of a request; stored requests are Pending or Resolved.
type RevealStatus string

const (
	RevealPending  RevealStatus = "pending"
	RevealResolved RevealStatus = "resolved"
)

// RevealRequest tracks one round of the asynchronous reveal protocol.
// Seq is a monotonically increasing sequence number that must accompany the
// oracle's eventual callback; a callback with any other number is stale.
type RevealRequest struct {
	Seq         uint64       `json:"seq"`
	RecordID    id.RecordID  `json:"record_id"`
	Field       Field        `json:"field"`
	Requester   id.PartyID   `json:"requester"`
	Status      RevealStatus `json:"status"`
	RequestedAt time.Time    `json:"requested_at"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
}

// Resolve transitions the request from Pending to Resolved.
func (rr *RevealRequest) Resolve(now time.Time) error {
	if rr.Status != RevealPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "reveal request is not pending")
	}
	rr.Status = RevealResolved
	rr.ResolvedAt = &now
	return nil
}
