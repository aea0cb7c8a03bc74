package preference

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

// Service exposes the user-facing preference operations: a merged read view
// and partial updates. An omitted type in an update keeps its prior (or
// default) value; only supplied types are replaced.
type Service struct {
	storage Storage
}

// NewService creates a preference service on top of the given storage.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// Get returns the effective preference table for the user: stored entries
// where they parse, that type's default everywhere else.
func (s *Service) Get(ctx context.Context, userID string) (map[notification.Type][]notification.Channel, error) {
	stored, err := s.storage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[notification.Type][]notification.Channel, len(notification.Types))
	for _, t := range notification.Types {
		out[t] = DefaultChannels(t)
		raw, ok := stored[string(t)]
		if !ok {
			continue
		}
		channels, err := parseChannels(raw)
		if err != nil || len(channels) == 0 {
			continue
		}
		out[t] = channels
	}
	return out, nil
}

// Update applies a partial preference update. Keys absent from updates are
// left untouched; supplied keys replace the stored entry for that type.
// Unknown types or channels are rejected before anything is persisted.
func (s *Service) Update(ctx context.Context, userID string, updates map[notification.Type][]notification.Channel) error {
	var errs validator.ValidationErrors
	for t, channels := range updates {
		if !t.Valid() {
			errs.Add(validator.ValidationError{
				Field:   string(t),
				Message: "unknown notification type",
			})
			continue
		}
		for _, ch := range channels {
			if !ch.Valid() {
				errs.Add(validator.ValidationError{
					Field:   string(t),
					Message: fmt.Sprintf("unknown channel %q", ch),
				})
			}
		}
	}
	if !errs.IsEmpty() {
		return errs
	}

	stored, err := s.storage.Get(ctx, userID)
	if err != nil {
		return err
	}
	if stored == nil {
		stored = StoredPreferences{}
	}

	for t, channels := range updates {
		raw, err := json.Marshal(channels)
		if err != nil {
			return fmt.Errorf("failed to encode channels for %s: %w", t, err)
		}
		stored[string(t)] = raw
	}

	return s.storage.Set(ctx, userID, stored)
}
