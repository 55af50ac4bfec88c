package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/fhe"
	"veritas/internal/sentinel"
	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
)

func newTestRecord(t *testing.T, recordID id.RecordID) *models.Record {
	t.Helper()
	record, err := models.NewRecord(
		recordID,
		id.PartyID(uuid.New()),
		id.PartyID(uuid.New()),
		fhe.Handle("0xcid"),
		fhe.Handle("0xscore"),
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return record
}

func TestInMemoryRecordStore_CreateAndFind(t *testing.T) {
	s := NewMemoryRecords()
	ctx := context.Background()

	record := newTestRecord(t, 1)
	require.NoError(t, s.Create(ctx, record))

	found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, record.Issuer, found.Issuer)
	assert.Equal(t, models.StatusActive, found.Status)
}

func TestInMemoryRecordStore_DuplicateCreate(t *testing.T) {
	s := NewMemoryRecords()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestRecord(t, 1)))
	err := s.Create(ctx, newTestRecord(t, 1))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestInMemoryRecordStore_FindMissing(t *testing.T) {
	s := NewMemoryRecords()
	_, err := s.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryRecordStore_Update(t *testing.T) {
	s := NewMemoryRecords()
	ctx := context.Background()

	record := newTestRecord(t, 1)
	require.NoError(t, s.Create(ctx, record))

	require.NoError(t, record.Revoke(time.Now().UTC()))
	require.NoError(t, s.Update(ctx, record))

	found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevoked, found.Status)
	assert.NotNil(t, found.RevokedAt)

	missing := newTestRecord(t, 2)
	assert.ErrorIs(t, s.Update(ctx, missing), sentinel.ErrNotFound)
}

func TestInMemoryRecordStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryRecords()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestRecord(t, 1)))

	found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	found.Status = models.StatusRevoked

	again, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, again.Status)
}

func TestInMemoryRecordStore_ListInIDOrder(t *testing.T) {
	s := NewMemoryRecords()
	ctx := context.Background()

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, s.Create(ctx, newTestRecord(t, 3)))
	require.NoError(t, s.Create(ctx, newTestRecord(t, 1)))

	records, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, id.RecordID(1), records[0].ID)
	assert.Equal(t, id.RecordID(3), records[1].ID)
}

func TestInMemoryRevealStore_SequenceIsMonotonic(t *testing.T) {
	s := NewMemoryReveals()
	ctx := context.Background()
	requester := id.PartyID(uuid.New())

	first := &models.RevealRequest{RecordID: 1, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePending(ctx, first))

	second := &models.RevealRequest{RecordID: 2, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePending(ctx, second))

	assert.Greater(t, second.Seq, first.Seq)
}

func TestInMemoryRevealStore_OnePendingPerRecordField(t *testing.T) {
	s := NewMemoryReveals()
	ctx := context.Background()
	requester := id.PartyID(uuid.New())

	first := &models.RevealRequest{RecordID: 1, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePending(ctx, first))

	dup := &models.RevealRequest{RecordID: 1, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	assert.ErrorIs(t, s.CreatePending(ctx, dup), sentinel.ErrAlreadyUsed)

	// A resolved request frees the slot.
	require.NoError(t, first.Resolve(time.Now().UTC()))
	require.NoError(t, s.Update(ctx, first))

	again := &models.RevealRequest{RecordID: 1, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePending(ctx, again))
	assert.Greater(t, again.Seq, first.Seq)
}

func TestInMemoryRevealStore_FindAndListPending(t *testing.T) {
	s := NewMemoryReveals()
	ctx := context.Background()
	requester := id.PartyID(uuid.New())

	_, err := s.FindPending(ctx, 1, models.FieldCID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	req := &models.RevealRequest{RecordID: 1, Field: models.FieldCID, Requester: requester, RequestedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePending(ctx, req))

	found, err := s.FindPending(ctx, 1, models.FieldCID)
	require.NoError(t, err)
	assert.Equal(t, req.Seq, found.Seq)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.Seq, pending[0].Seq)

	require.NoError(t, found.Resolve(time.Now().UTC()))
	require.NoError(t, s.Update(ctx, found))

	pending, err = s.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
