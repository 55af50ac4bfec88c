package service

import (
	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Roles are derived per record, not stored: issuer and holder come from the
// record itself, the oracle is process-wide configuration. Third parties are
// every other authenticated caller; they get comparison results only, never
// raw handles.

func requireParticipant(record *models.Record, caller id.PartyID) error {
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	if record.Issuer != caller && record.Holder != caller {
		return dErrors.New(dErrors.CodeForbidden, "caller is neither issuer nor holder")
	}
	return nil
}

func requireHolder(record *models.Record, caller id.PartyID) error {
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	if record.Holder != caller {
		return dErrors.New(dErrors.CodeForbidden, "only the record holder may perform this operation")
	}
	return nil
}

func (s *Service) requireOracle(caller id.PartyID) error {
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	if caller != s.oracleParty {
		return dErrors.New(dErrors.CodeForbidden, "only the configured oracle may resolve reveals")
	}
	return nil
}
