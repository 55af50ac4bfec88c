package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteStore persists audit events in the audit_events table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Append(ctx context.Context, event Event) error {
	var recordID any
	if event.RecordID != 0 {
		recordID = int64(event.RecordID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, ts, party, action, record_id, field, detail, device)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		event.Timestamp,
		event.Party,
		event.Action,
		recordID,
		event.Field,
		event.Detail,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListByParty(ctx context.Context, party string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, party, action, record_id, field, detail, device
		FROM audit_events
		WHERE party = ?
		ORDER BY ts`,
		party,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			recordID sql.NullInt64
			field    sql.NullString
			detail   sql.NullString
			device   sql.NullString
		)
		if err := rows.Scan(&e.Timestamp, &e.Party, &e.Action, &recordID, &field, &detail, &device); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if recordID.Valid {
			e.RecordID = uint64(recordID.Int64)
		}
		e.Field = field.String
		e.Detail = detail.String
		e.Device = device.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

var _ Store = (*SQLiteStore)(nil)
