package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/pg"
)

// PostgresStorage is a pgx-backed implementation of Storage. The whole row is
// stored as jsonb but handed back unparsed per type, so resolution can degrade
// one corrupt entry without losing the rest.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a preference storage backed by the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Get(ctx context.Context, userID string) (StoredPreferences, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT prefs FROM notification_preferences WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if pg.IsNotFoundError(err) {
			// Missing row is equivalent to the defaults row, never an error.
			return StoredPreferences{}, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := StoredPreferences{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		// A row whose envelope does not even parse degrades to "no row";
		// per-type corruption inside a valid envelope is handled upstream.
		return StoredPreferences{}, nil
	}
	return prefs, nil
}

func (s *PostgresStorage) Set(ctx context.Context, userID string, prefs StoredPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, prefs, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = EXCLUDED.updated_at`,
		userID, raw, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}
