package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"veritas/internal/sentinel"
	"veritas/internal/transcript/models"
	id "veritas/pkg/domain"
)

// InMemoryRecordStore stores records in memory. Safe for concurrent use.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	records map[id.RecordID]*models.Record
}

// NewMemoryRecords constructs an empty in-memory record store.
func NewMemoryRecords() *InMemoryRecordStore {
	return &InMemoryRecordStore{records: make(map[id.RecordID]*models.Record)}
}

func (s *InMemoryRecordStore) Create(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return fmt.Errorf("record %d already exists: %w", record.ID, sentinel.ErrAlreadyUsed)
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

func (s *InMemoryRecordStore) FindByID(_ context.Context, recordID id.RecordID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[recordID]; ok {
		cp := *record
		return &cp, nil
	}
	return nil, fmt.Errorf("record not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryRecordStore) List(_ context.Context) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.Record, 0, len(s.records))
	for _, record := range s.records {
		cp := *record
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *InMemoryRecordStore) Update(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return fmt.Errorf("record not found: %w", sentinel.ErrNotFound)
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

// InMemoryRevealStore stores reveal requests in memory. Safe for concurrent use.
type InMemoryRevealStore struct {
	mu       sync.Mutex
	nextSeq  uint64
	requests map[uint64]*models.RevealRequest
}

// NewMemoryReveals constructs an empty in-memory reveal store.
func NewMemoryReveals() *InMemoryRevealStore {
	return &InMemoryRevealStore{
		nextSeq:  1,
		requests: make(map[uint64]*models.RevealRequest),
	}
}

func (s *InMemoryRevealStore) CreatePending(_ context.Context, req *models.RevealRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		if existing.RecordID == req.RecordID && existing.Field == req.Field && existing.Status == models.RevealPending {
			return fmt.Errorf("reveal already pending: %w", sentinel.ErrAlreadyUsed)
		}
	}

	req.Seq = s.nextSeq
	s.nextSeq++
	req.Status = models.RevealPending

	cp := *req
	s.requests[req.Seq] = &cp
	return nil
}

func (s *InMemoryRevealStore) FindPending(_ context.Context, recordID id.RecordID, field models.Field) (*models.RevealRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.RecordID == recordID && req.Field == field && req.Status == models.RevealPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no pending reveal: %w", sentinel.ErrNotFound)
}

func (s *InMemoryRevealStore) ListPending(_ context.Context) ([]*models.RevealRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*models.RevealRequest
	for seq := uint64(1); seq < s.nextSeq; seq++ {
		if req, ok := s.requests[seq]; ok && req.Status == models.RevealPending {
			cp := *req
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (s *InMemoryRevealStore) Update(_ context.Context, req *models.RevealRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.Seq]; !ok {
		return fmt.Errorf("reveal request not found: %w", sentinel.ErrNotFound)
	}
	cp := *req
	s.requests[req.Seq] = &cp
	return nil
}

// Interface guards.
var (
	_ RecordStore = (*InMemoryRecordStore)(nil)
	_ RevealStore = (*InMemoryRevealStore)(nil)
)
