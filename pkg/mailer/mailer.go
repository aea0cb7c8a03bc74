package mailer

import (
	"context"
	"time"
)

// Email is one outbound message handed to a Sink.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SentEmail is the append-only record of one email the engine accepted for
// delivery. It has no lifecycle beyond creation.
type SentEmail struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink accepts outbound emails. The default implementation is a recording
// stub; a Postmark-backed sink can be swapped in by configuration.
type Sink interface {
	Send(ctx context.Context, email Email) error
}

// Storage persists sent-email records.
type Storage interface {
	// Create appends a sent-email record.
	Create(ctx context.Context, email SentEmail) error

	// List returns all recorded emails for an address, newest first.
	List(ctx context.Context, to string) ([]SentEmail, error)
}
