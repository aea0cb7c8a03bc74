package mailer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Config holds mailer configuration. The Postmark tokens are optional so
// that development environments fall back to the recording stub.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"notifications@localhost"`
}

// PostmarkEnabled reports whether the config selects the real transport.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != ""
}

// PostmarkSink sends emails through Postmark's transactional API and records
// each accepted send in the same ledger the stub uses.
type PostmarkSink struct {
	client  *postmark.Client
	cfg     Config
	storage Storage
}

// NewPostmarkSink creates a Postmark-backed sink. Both tokens and a valid
// sender address are required; this enforces explicit configuration rather
// than silent failures in production.
func NewPostmarkSink(cfg Config, storage Storage) (*PostmarkSink, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &PostmarkSink{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:     cfg,
		storage: storage,
	}, nil
}

func (s *PostmarkSink) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidEmail)
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.cfg.SenderEmail,
		To:       email.To,
		Subject:  email.Subject,
		TextBody: email.Body,
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSend,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	return s.storage.Create(ctx, SentEmail{
		ID:        uuid.New().String(),
		To:        email.To,
		Subject:   email.Subject,
		Body:      email.Body,
		CreatedAt: time.Now(),
	})
}
