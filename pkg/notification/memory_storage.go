package notification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of Storage.
// Suitable for development and testing.
type MemoryStorage struct {
	records map[string][]Record // userID -> records
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string][]Record),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if rec.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRecord)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, userID string, offset, limit int) ([]Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.records[userID]
	total := len(stored)

	// Copy before sorting so stored order is never disturbed.
	items := make([]Record, total)
	copy(items, stored)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Record{}, total, nil
	}

	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return items[offset:end], total, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, id, userID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Single predicate: id AND owner. A foreign-owned id falls through to
	// the same ErrNotFound as a missing one.
	for i, rec := range s.records[userID] {
		if rec.ID == id {
			s.records[userID][i].Read = true
			updated := s.records[userID][i]
			return &updated, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.records[userID] {
		if !s.records[userID][i].Read {
			s.records[userID][i].Read = true
			changed++
		}
	}

	return changed, nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.records[userID] {
		if !rec.Read {
			count++
		}
	}

	return count, nil
}
