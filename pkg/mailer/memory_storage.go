package mailer

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory implementation of Storage.
// Suitable for development and testing.
type MemoryStorage struct {
	emails []SentEmail
	mu     sync.RWMutex
}

// NewMemoryStorage creates a new in-memory sent-email storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Create(ctx context.Context, email SentEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emails = append(s.emails, email)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, to string) ([]SentEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SentEmail
	// Append-only storage keeps insertion order; walk backwards for
	// newest-first.
	for i := len(s.emails) - 1; i >= 0; i-- {
		if s.emails[i].To == to {
			out = append(out, s.emails[i])
		}
	}
	return out, nil
}
