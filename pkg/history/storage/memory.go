package storage

import (
	"context"
	"sort"
	"sync"

	"intlab/rpncalc/pkg/history"
)

const backendMemory = "memory"

// MemoryStorage implements history.Storage with an in-memory map. It is
// used in tests and when no database is configured.
type MemoryStorage struct {
	records map[string]*history.Record
	closed  bool
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*history.Record),
	}
}

// Store saves a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.NewStorageError(backendMemory, "store", history.ErrClosed)
	}

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query returns copies of the matching records in the query's sort order.
func (s *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.NewStorageError(backendMemory, "query", history.ErrClosed)
	}

	limit := history.DefaultQueryLimit
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	offset := 0
	if query != nil {
		offset = query.Offset
	}

	matched := s.matching(query)
	if offset >= len(matched) {
		return []*history.Record{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]*history.Record, 0, len(matched))
	for _, record := range matched {
		recordCopy := *record
		results = append(results, &recordCopy)
	}
	return results, nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.NewStorageError(backendMemory, "count", history.ErrClosed)
	}

	var count int64
	for _, record := range s.records {
		if query.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete removes matching records, honouring Limit in sort order.
func (s *MemoryStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.NewStorageError(backendMemory, "delete", history.ErrClosed)
	}

	matched := s.matching(query)
	if query != nil && query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	for _, record := range matched {
		delete(s.records, record.ID)
	}
	return int64(len(matched)), nil
}

// Ping fails once the store is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.NewStorageError(backendMemory, "ping", history.ErrClosed)
	}
	return nil
}

// Close marks the store closed. Records are kept so tests can inspect them.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Size returns the number of stored records.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// matching returns the records passing query's filters, sorted. Callers
// hold the lock.
func (s *MemoryStorage) matching(query *history.Query) []*history.Record {
	var matched []*history.Record
	for _, record := range s.records {
		if query.Matches(record) {
			matched = append(matched, record)
		}
	}

	asc := query.Ascending()
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return matched
}
