package webhook

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// MemoryStorage is an in-memory implementation of Storage.
// Suitable for development and testing.
type MemoryStorage struct {
	configs    map[string]Config     // configID -> config
	deliveries map[string][]Delivery // webhookID -> ledger rows
	byID       map[string]int        // deliveryID -> index in its webhook's ledger
	mu         sync.RWMutex
}

// NewMemoryStorage creates a new in-memory webhook storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		configs:    make(map[string]Config),
		deliveries: make(map[string][]Delivery),
		byID:       make(map[string]int),
	}
}

func (s *MemoryStorage) CreateConfig(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs[cfg.ID] = copyConfig(cfg)
	return nil
}

func (s *MemoryStorage) GetConfig(ctx context.Context, id, userID string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[id]
	if !ok || cfg.UserID != userID {
		return nil, ErrNotFound
	}
	out := copyConfig(cfg)
	return &out, nil
}

func (s *MemoryStorage) ListConfigs(ctx context.Context, userID string) ([]Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Config, 0)
	for _, cfg := range s.configs {
		if cfg.UserID == userID {
			out = append(out, copyConfig(cfg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStorage) UpdateConfig(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.configs[cfg.ID]
	if !ok || existing.UserID != cfg.UserID {
		return ErrNotFound
	}
	s.configs[cfg.ID] = copyConfig(cfg)
	return nil
}

func (s *MemoryStorage) DeleteConfig(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.configs[id]
	if !ok || cfg.UserID != userID {
		return ErrNotFound
	}
	delete(s.configs, id)
	return nil
}

func (s *MemoryStorage) ListSubscribed(ctx context.Context, userID string, event notification.Type) ([]Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Config, 0)
	for _, cfg := range s.configs {
		if cfg.UserID == userID && cfg.Active && cfg.Subscribed(event) {
			out = append(out, copyConfig(cfg))
		}
	}
	return out, nil
}

func (s *MemoryStorage) CreateDelivery(ctx context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deliveries[d.WebhookID] = append(s.deliveries[d.WebhookID], copyDelivery(d))
	s.byID[d.ID] = len(s.deliveries[d.WebhookID]) - 1
	return nil
}

func (s *MemoryStorage) UpdateDelivery(ctx context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[d.ID]
	if !ok || idx >= len(s.deliveries[d.WebhookID]) {
		return ErrNotFound
	}
	s.deliveries[d.WebhookID][idx] = copyDelivery(d)
	return nil
}

func (s *MemoryStorage) ListDeliveries(ctx context.Context, webhookID string) ([]Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.deliveries[webhookID]
	out := make([]Delivery, len(rows))
	for i, d := range rows {
		out[i] = copyDelivery(d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyConfig(cfg Config) Config {
	out := cfg
	out.Events = make([]notification.Type, len(cfg.Events))
	copy(out.Events, cfg.Events)
	return out
}

func copyDelivery(d Delivery) Delivery {
	out := d
	out.Payload = make([]byte, len(d.Payload))
	copy(out.Payload, d.Payload)
	if d.ResponseCode != nil {
		code := *d.ResponseCode
		out.ResponseCode = &code
	}
	if d.LastAttemptAt != nil {
		ts := *d.LastAttemptAt
		out.LastAttemptAt = &ts
	}
	return out
}
