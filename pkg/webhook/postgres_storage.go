package webhook

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/secrets"
)

// PostgresStorage is a pgx-backed implementation of Storage. When an app key
// is configured, webhook secrets are encrypted at rest under a per-owner key
// so a leaked table dump does not expose signing material.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	appKey []byte
}

// PostgresOption configures a PostgresStorage.
type PostgresOption func(*PostgresStorage)

// WithAppKey enables at-rest encryption of webhook secrets using the given
// 32-byte application key.
func WithAppKey(key []byte) PostgresOption {
	return func(s *PostgresStorage) {
		s.appKey = key
	}
}

// NewPostgresStorage creates a webhook storage backed by the given pool.
func NewPostgresStorage(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStorage {
	s := &PostgresStorage{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStorage) sealSecret(userID, secret string) (string, error) {
	if len(s.appKey) == 0 {
		return secret, nil
	}
	return secrets.EncryptString(s.appKey, secrets.OwnerKey(userID), secret)
}

func (s *PostgresStorage) openSecret(userID, stored string) (string, error) {
	if len(s.appKey) == 0 {
		return stored, nil
	}
	return secrets.DecryptString(s.appKey, secrets.OwnerKey(userID), stored)
}

func (s *PostgresStorage) CreateConfig(ctx context.Context, cfg Config) error {
	secret, err := s.sealSecret(cfg.UserID, cfg.Secret)
	if err != nil {
		return fmt.Errorf("failed to seal webhook secret: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO webhooks (id, user_id, url, secret, events, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cfg.ID, cfg.UserID, cfg.URL, secret, cfg.Events, cfg.Active, cfg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store webhook: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetConfig(ctx context.Context, id, userID string) (*Config, error) {
	var cfg Config
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, url, secret, events, active, created_at
		FROM webhooks
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&cfg.ID, &cfg.UserID, &cfg.URL, &cfg.Secret, &cfg.Events, &cfg.Active, &cfg.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read webhook: %w", err)
	}

	if cfg.Secret, err = s.openSecret(userID, cfg.Secret); err != nil {
		return nil, fmt.Errorf("failed to open webhook secret: %w", err)
	}
	return &cfg, nil
}

func (s *PostgresStorage) ListConfigs(ctx context.Context, userID string) ([]Config, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, url, secret, events, active, created_at
		FROM webhooks
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	return s.scanConfigs(rows, userID)
}

func (s *PostgresStorage) UpdateConfig(ctx context.Context, cfg Config) error {
	secret, err := s.sealSecret(cfg.UserID, cfg.Secret)
	if err != nil {
		return fmt.Errorf("failed to seal webhook secret: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE webhooks SET url = $3, secret = $4, events = $5, active = $6
		WHERE id = $1 AND user_id = $2`,
		cfg.ID, cfg.UserID, cfg.URL, secret, cfg.Events, cfg.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) DeleteConfig(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM webhooks WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) ListSubscribed(ctx context.Context, userID string, event notification.Type) ([]Config, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, url, secret, events, active, created_at
		FROM webhooks
		WHERE user_id = $1 AND active = TRUE AND $2 = ANY(events)`,
		userID, string(event),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed webhooks: %w", err)
	}
	defer rows.Close()

	return s.scanConfigs(rows, userID)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func (s *PostgresStorage) scanConfigs(rows pgxRows, userID string) ([]Config, error) {
	out := make([]Config, 0)
	for rows.Next() {
		var cfg Config
		if err := rows.Scan(&cfg.ID, &cfg.UserID, &cfg.URL, &cfg.Secret, &cfg.Events, &cfg.Active, &cfg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		secret, err := s.openSecret(userID, cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("failed to open webhook secret: %w", err)
		}
		cfg.Secret = secret
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) CreateDelivery(ctx context.Context, d Delivery) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO webhook_deliveries (id, webhook_id, event_type, payload, status, response_code, attempts, last_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.WebhookID, d.EventType, d.Payload, d.Status, d.ResponseCode, d.Attempts, d.LastAttemptAt, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store delivery: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpdateDelivery(ctx context.Context, d Delivery) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE webhook_deliveries
		SET status = $2, response_code = $3, attempts = $4, last_attempt_at = $5
		WHERE id = $1`,
		d.ID, d.Status, d.ResponseCode, d.Attempts, d.LastAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) ListDeliveries(ctx context.Context, webhookID string) ([]Delivery, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, webhook_id, event_type, payload, status, response_code, attempts, last_attempt_at, created_at
		FROM webhook_deliveries
		WHERE webhook_id = $1
		ORDER BY created_at DESC`,
		webhookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]Delivery, 0)
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.WebhookID, &d.EventType, &d.Payload, &d.Status, &d.ResponseCode, &d.Attempts, &d.LastAttemptAt, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
