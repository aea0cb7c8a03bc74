package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RecordingSink is the stub email channel: it persists a SentEmail row and
// logs the send, with no real transport. This keeps the channel abstraction
// uniform while leaving actual delivery to a configured provider.
type RecordingSink struct {
	storage Storage
	log     *slog.Logger
}

// RecordingSinkOption configures a RecordingSink.
type RecordingSinkOption func(*RecordingSink)

// WithRecordingLogger sets the logger for the RecordingSink.
func WithRecordingLogger(log *slog.Logger) RecordingSinkOption {
	return func(s *RecordingSink) {
		if log != nil {
			s.log = log
		}
	}
}

// NewRecordingSink creates a sink that records emails without sending them.
func NewRecordingSink(storage Storage, opts ...RecordingSinkOption) *RecordingSink {
	s := &RecordingSink{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecordingSink) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidEmail)
	}

	rec := SentEmail{
		ID:        uuid.New().String(),
		To:        email.To,
		Subject:   email.Subject,
		Body:      email.Body,
		CreatedAt: time.Now(),
	}
	if err := s.storage.Create(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSend, err)
	}

	s.log.InfoContext(ctx, "email recorded",
		slog.String("email_id", rec.ID),
		slog.String("subject", rec.Subject),
	)
	return nil
}
