package preference

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStorage is an in-memory implementation of Storage.
// Suitable for development and testing.
type MemoryStorage struct {
	rows map[string]StoredPreferences // userID -> raw preference row
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new in-memory preference storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		rows: make(map[string]StoredPreferences),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, userID string) (StoredPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[userID]
	if !ok {
		return StoredPreferences{}, nil
	}

	// Copy to prevent external mutation of stored data.
	out := make(StoredPreferences, len(row))
	for k, v := range row {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		out[k] = raw
	}
	return out, nil
}

func (s *MemoryStorage) Set(ctx context.Context, userID string, prefs StoredPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := make(StoredPreferences, len(prefs))
	for k, v := range prefs {
		raw := make(json.RawMessage, len(v))
		copy(raw, v)
		row[k] = raw
	}
	s.rows[userID] = row
	return nil
}
