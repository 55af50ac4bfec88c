package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"veritas/internal/fhe"
	"veritas/internal/sentinel"
	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
)

// SQLiteRecordStore persists records in sqlite.
type SQLiteRecordStore struct {
	db *sql.DB
}

// NewSQLiteRecords constructs a sqlite-backed record store.
func NewSQLiteRecords(db *sql.DB) *SQLiteRecordStore {
	return &SQLiteRecordStore{db: db}
}

func (s *SQLiteRecordStore) Create(ctx context.Context, record *models.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, issuer, holder, status, cid_handle, score_handle, revealed_cid, created_at, updated_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(record.ID),
		record.Issuer.String(),
		record.Holder.String(),
		string(record.Status),
		string(record.CIDHandle),
		string(record.ScoreHandle),
		record.RevealedCID,
		record.CreatedAt,
		record.UpdatedAt,
		record.RevokedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %d already exists: %w", record.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) FindByID(ctx context.Context, recordID id.RecordID) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, issuer, holder, status, cid_handle, score_handle, revealed_cid, created_at, updated_at, revoked_at
		FROM records WHERE id = ?`,
		int64(recordID),
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return record, nil
}

func (s *SQLiteRecordStore) List(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, issuer, holder, status, cid_handle, score_handle, revealed_cid, created_at, updated_at, revoked_at
		FROM records
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (s *SQLiteRecordStore) Update(ctx context.Context, record *models.Record) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE records
		SET status = ?, revealed_cid = ?, updated_at = ?, revoked_at = ?
		WHERE id = ?`,
		string(record.Status),
		record.RevealedCID,
		record.UpdatedAt,
		record.RevokedAt,
		int64(record.ID),
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// SQLiteRevealStore persists reveal requests in sqlite. Sequence numbers come
// from the table's AUTOINCREMENT rowid, so they survive restarts and never
// repeat.
type SQLiteRevealStore struct {
	db *sql.DB
}

// NewSQLiteReveals constructs a sqlite-backed reveal store.
func NewSQLiteReveals(db *sql.DB) *SQLiteRevealStore {
	return &SQLiteRevealStore{db: db}
}

func (s *SQLiteRevealStore) CreatePending(ctx context.Context, req *models.RevealRequest) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reveal_requests (record_id, field, requester, status, requested_at)
		VALUES (?, ?, ?, ?, ?)`,
		int64(req.RecordID),
		string(req.Field),
		req.Requester.String(),
		string(models.RevealPending),
		req.RequestedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reveal already pending: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert reveal request: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reveal request seq: %w", err)
	}
	req.Seq = uint64(seq)
	req.Status = models.RevealPending
	return nil
}

func (s *SQLiteRevealStore) FindPending(ctx context.Context, recordID id.RecordID, field models.Field) (*models.RevealRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, record_id, field, requester, status, requested_at, resolved_at
		FROM reveal_requests
		WHERE record_id = ? AND field = ? AND status = ?`,
		int64(recordID),
		string(field),
		string(models.RevealPending),
	)
	req, err := scanReveal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no pending reveal: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find pending reveal: %w", err)
	}
	return req, nil
}

func (s *SQLiteRevealStore) ListPending(ctx context.Context) ([]*models.RevealRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, record_id, field, requester, status, requested_at, resolved_at
		FROM reveal_requests
		WHERE status = ?
		ORDER BY seq`,
		string(models.RevealPending),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending reveals: %w", err)
	}
	defer rows.Close()

	var pending []*models.RevealRequest
	for rows.Next() {
		req, err := scanReveal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending reveal: %w", err)
		}
		pending = append(pending, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending reveals: %w", err)
	}
	return pending, nil
}

func (s *SQLiteRevealStore) Update(ctx context.Context, req *models.RevealRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reveal_requests
		SET status = ?, resolved_at = ?
		WHERE seq = ?`,
		string(req.Status),
		req.ResolvedAt,
		int64(req.Seq),
	)
	if err != nil {
		return fmt.Errorf("update reveal request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reveal request rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reveal request not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		recordID    int64
		issuer      string
		holder      string
		status      string
		cidHandle   string
		scoreHandle string
		revealedCID sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		revokedAt   sql.NullTime
	)
	if err := row.Scan(&recordID, &issuer, &holder, &status, &cidHandle, &scoreHandle, &revealedCID, &createdAt, &updatedAt, &revokedAt); err != nil {
		return nil, err
	}

	issuerID, err := id.ParsePartyID(issuer)
	if err != nil {
		return nil, fmt.Errorf("stored issuer: %w", err)
	}
	holderID, err := id.ParsePartyID(holder)
	if err != nil {
		return nil, fmt.Errorf("stored holder: %w", err)
	}

	record := &models.Record{
		ID:          id.RecordID(recordID),
		Issuer:      issuerID,
		Holder:      holderID,
		Status:      models.RecordStatus(status),
		CIDHandle:   fhe.Handle(cidHandle),
		ScoreHandle: fhe.Handle(scoreHandle),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if revealedCID.Valid {
		record.RevealedCID = &revealedCID.String
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		record.RevokedAt = &t
	}
	return record, nil
}

func scanReveal(row rowScanner) (*models.RevealRequest, error) {
	var (
		seq         int64
		recordID    int64
		field       string
		requester   string
		status      string
		requestedAt time.Time
		resolvedAt  sql.NullTime
	)
	if err := row.Scan(&seq, &recordID, &field, &requester, &status, &requestedAt, &resolvedAt); err != nil {
		return nil, err
	}

	requesterID, err := id.ParsePartyID(requester)
	if err != nil {
		return nil, fmt.Errorf("stored requester: %w", err)
	}

	req := &models.RevealRequest{
		Seq:         uint64(seq),
		RecordID:    id.RecordID(recordID),
		Field:       models.Field(field),
		Requester:   requesterID,
		Status:      models.RevealStatus(status),
		RequestedAt: requestedAt,
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		req.ResolvedAt = &t
	}
	return req, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlitelib.SQLITE_CONSTRAINT_UNIQUE || code == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// Interface guards.
var (
	_ RecordStore = (*SQLiteRecordStore)(nil)
	_ RevealStore = (*SQLiteRevealStore)(nil)
)
