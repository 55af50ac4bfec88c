package audit

import "time"

// Event is emitted from domain logic to capture key registry actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Party     string
	Action    string
	RecordID  uint64
	Field     string
	Detail    string
	Device    string
}

type AuditEvent string

const (
	EventRecordMinted    AuditEvent = "record_minted"
	EventFieldAccessed   AuditEvent = "field_accessed"
	EventComparisonRun   AuditEvent = "comparison_run"
	EventRevealRequested AuditEvent = "reveal_requested"
	EventRevealResolved  AuditEvent = "reveal_resolved"
	EventRevealRead      AuditEvent = "reveal_read"
	EventRecordRevoked   AuditEvent = "record_revoked"
	EventAccessDenied    AuditEvent = "access_denied"
)
