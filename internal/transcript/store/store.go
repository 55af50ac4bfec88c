// Package store persists transcript records and reveal requests. Two
// implementations exist: an in-memory store for tests and single-node
// deployments, and a sqlite store for durable deployments.
//
// Error contract, shared by all implementations:
//   - sentinel.ErrNotFound when the requested entity does not exist
//   - sentinel.ErrAlreadyUsed when a uniqueness rule would be violated
//   - wrapped infrastructure errors otherwise
package store

import (
	"context"

	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
)

// RecordStore persists transcript records. Records are insert-then-update
// only; nothing ever deletes a record.
type RecordStore interface {
	// Create inserts a new record. Returns ErrAlreadyUsed if the record ID
	// is taken.
	Create(ctx context.Context, record *models.Record) error

	// FindByID returns the record or ErrNotFound.
	FindByID(ctx context.Context, recordID id.RecordID) (*models.Record, error)

	// List returns all records in id order. Startup uses this to rebuild
	// the attestation validator's handle registry.
	List(ctx context.Context) ([]*models.Record, error)

	// Update overwrites the stored record. Returns ErrNotFound if the
	// record was never created.
	Update(ctx context.Context, record *models.Record) error
}

// RevealStore persists reveal requests and hands out their sequence numbers.
type RevealStore interface {
	// CreatePending inserts a pending request and assigns req.Seq from a
	// monotonically increasing counter. Returns ErrAlreadyUsed if a pending
	// request already exists for the same (record, field).
	CreatePending(ctx context.Context, req *models.RevealRequest) error

	// FindPending returns the pending request for (record, field), or
	// ErrNotFound.
	FindPending(ctx context.Context, recordID id.RecordID, field models.Field) (*models.RevealRequest, error)

	// ListPending returns all pending requests in sequence order. The
	// decryption oracle polls this.
	ListPending(ctx context.Context) ([]*models.RevealRequest, error)

	// Update overwrites the stored request identified by req.Seq. Returns
	// ErrNotFound if no such request exists.
	Update(ctx context.Context, req *models.RevealRequest) error
}
