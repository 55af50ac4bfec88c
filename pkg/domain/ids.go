// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "veritas/pkg/domain-errors"
)

// PartyID identifies an authenticated participant: an issuing authority,
// a record holder, a third-party authority, or the decryption oracle.
type PartyID uuid.UUID

// RecordID is the issuer-assigned transcript identifier. It is unique for
// the life of the system and never reissued, so a plain integer is enough.
type RecordID uint64

// ParsePartyID validates a party identifier at trust boundaries (handlers, token claims).
func ParsePartyID(s string) (PartyID, error) {
	if s == "" {
		return PartyID{}, dErrors.New(dErrors.CodeInvalidInput, "party ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return PartyID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid party ID format")
	}
	return PartyID(id), nil
}

// ParseRecordID parses a decimal record identifier from URL or payload input.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "record ID cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid record ID format")
	}
	return RecordID(n), nil
}

func (id PartyID) String() string  { return uuid.UUID(id).String() }
func (id RecordID) String() string { return strconv.FormatUint(uint64(id), 10) }

func (id PartyID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
