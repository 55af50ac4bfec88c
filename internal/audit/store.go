package audit

import "context"

// Store is the audit event sink. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByParty(ctx context.Context, party string) ([]Event, error)
}
