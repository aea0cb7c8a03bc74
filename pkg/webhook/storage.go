package webhook

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Storage persists webhook configs and their delivery ledgers. Config reads
// and mutations match by (id AND owner) in a single predicate so a correct id
// with the wrong owner is indistinguishable from a missing one.
type Storage interface {
	// CreateConfig stores a new webhook config.
	CreateConfig(ctx context.Context, cfg Config) error

	// GetConfig returns the config matching (id AND userID), or ErrNotFound.
	GetConfig(ctx context.Context, id, userID string) (*Config, error)

	// ListConfigs returns all configs owned by the user, newest first.
	ListConfigs(ctx context.Context, userID string) ([]Config, error)

	// UpdateConfig replaces the stored config matching (cfg.ID AND
	// cfg.UserID), or returns ErrNotFound.
	UpdateConfig(ctx context.Context, cfg Config) error

	// DeleteConfig removes the config matching (id AND userID), or returns
	// ErrNotFound.
	DeleteConfig(ctx context.Context, id, userID string) error

	// ListSubscribed returns the user's active configs subscribed to the
	// event type.
	ListSubscribed(ctx context.Context, userID string, event notification.Type) ([]Config, error)

	// CreateDelivery appends a new delivery ledger row.
	CreateDelivery(ctx context.Context, d Delivery) error

	// UpdateDelivery rewrites an existing ledger row by id.
	UpdateDelivery(ctx context.Context, d Delivery) error

	// ListDeliveries returns the ledger for one webhook, newest first.
	ListDeliveries(ctx context.Context, webhookID string) ([]Delivery, error)
}
