package mailer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is a pgx-backed implementation of Storage.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a sent-email storage backed by the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Create(ctx context.Context, email SentEmail) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sent_emails (id, recipient, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		email.ID, email.To, email.Subject, email.Body, email.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sent email: %w", err)
	}
	return nil
}

func (s *PostgresStorage) List(ctx context.Context, to string) ([]SentEmail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipient, subject, body, created_at
		FROM sent_emails
		WHERE recipient = $1
		ORDER BY created_at DESC`,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent emails: %w", err)
	}
	defer rows.Close()

	var out []SentEmail
	for rows.Next() {
		var email SentEmail
		if err := rows.Scan(&email.ID, &email.To, &email.Subject, &email.Body, &email.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sent email: %w", err)
		}
		out = append(out, email)
	}
	return out, rows.Err()
}
