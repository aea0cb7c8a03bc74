package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

// CreateParams are the caller-supplied fields for registering a webhook.
// Secret may be left empty, in which case the registry generates one; the
// generated secret is returned once on the created config and never again.
type CreateParams struct {
	URL    string              `json:"url"`
	Secret string              `json:"secret"`
	Events []notification.Type `json:"events"`
	Active *bool               `json:"active"`
}

// UpdateParams are the caller-supplied fields for a partial webhook update.
// Nil pointer and nil slice fields keep the stored value.
type UpdateParams struct {
	URL    *string             `json:"url"`
	Secret *string             `json:"secret"`
	Events []notification.Type `json:"events"`
	Active *bool               `json:"active"`
}

// Registry manages user-owned webhook configs. Every operation is scoped by
// owner: a valid id owned by another user behaves exactly like a missing id,
// so existence never leaks across users.
type Registry struct {
	storage Storage
}

// NewRegistry creates a webhook registry on top of the given storage.
func NewRegistry(storage Storage) *Registry {
	return &Registry{storage: storage}
}

// Create validates and registers a new webhook for the user. Validation
// failures are reported with field-level detail before anything is persisted.
func (r *Registry) Create(ctx context.Context, userID string, params CreateParams) (*Config, error) {
	if err := validateEndpoint(params.URL, params.Events); err != nil {
		return nil, err
	}

	secret := params.Secret
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}

	cfg := Config{
		ID:        uuid.New().String(),
		UserID:    userID,
		URL:       params.URL,
		Secret:    secret,
		Events:    params.Events,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if params.Active != nil {
		cfg.Active = *params.Active
	}

	if err := r.storage.CreateConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns one of the user's own webhooks, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id, userID string) (*Config, error) {
	return r.storage.GetConfig(ctx, id, userID)
}

// List returns all webhooks owned by the user.
func (r *Registry) List(ctx context.Context, userID string) ([]Config, error) {
	return r.storage.ListConfigs(ctx, userID)
}

// Update applies a partial update to one of the user's own webhooks.
// Unspecified fields keep their stored values; the merged config is
// re-validated before it is persisted.
func (r *Registry) Update(ctx context.Context, id, userID string, params UpdateParams) (*Config, error) {
	cfg, err := r.storage.GetConfig(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if params.URL != nil {
		cfg.URL = *params.URL
	}
	if params.Secret != nil && *params.Secret != "" {
		cfg.Secret = *params.Secret
	}
	if params.Events != nil {
		cfg.Events = params.Events
	}
	if params.Active != nil {
		cfg.Active = *params.Active
	}

	if err := validateEndpoint(cfg.URL, cfg.Events); err != nil {
		return nil, err
	}

	if err := r.storage.UpdateConfig(ctx, *cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Delete removes one of the user's own webhooks, or returns ErrNotFound.
func (r *Registry) Delete(ctx context.Context, id, userID string) error {
	return r.storage.DeleteConfig(ctx, id, userID)
}

// ListDeliveries returns the delivery ledger for one of the user's own
// webhooks. For a missing or foreign-owned id it returns an empty list, not
// an error: callers cannot distinguish "no deliveries yet" from "not your
// webhook".
func (r *Registry) ListDeliveries(ctx context.Context, webhookID, userID string) ([]Delivery, error) {
	if _, err := r.storage.GetConfig(ctx, webhookID, userID); err != nil {
		if IsNotFound(err) {
			return []Delivery{}, nil
		}
		return nil, err
	}
	return r.storage.ListDeliveries(ctx, webhookID)
}

// validateEndpoint checks the target URL and event subscription before any
// persistence happens.
func validateEndpoint(rawURL string, events []notification.Type) error {
	var errs validator.ValidationErrors

	if rawURL == "" {
		errs.Add(validator.ValidationError{Field: "url", Message: "field is required"})
	} else if u, err := url.Parse(rawURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs.Add(validator.ValidationError{Field: "url", Message: "must be a valid http or https URL"})
	}

	if len(events) == 0 {
		errs.Add(validator.ValidationError{Field: "events", Message: "at least one event type is required"})
	}
	for _, e := range events {
		if !e.Valid() {
			errs.Add(validator.ValidationError{
				Field:   "events",
				Message: fmt.Sprintf("unknown event type %q", e),
			})
		}
	}

	if !errs.IsEmpty() {
		return errs
	}
	return nil
}

// generateSecret produces a 64-character hex secret from 32 random bytes.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
