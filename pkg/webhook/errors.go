package webhook

import "errors"

// Domain errors for webhook operations, designed for error wrapping and
// classification. Not-found deliberately covers foreign-owned ids so that
// callers cannot probe for other users' webhooks.
var (
	ErrNotFound       = errors.New("webhook not found")
	ErrInvalidURL     = errors.New("invalid webhook URL")
	ErrInvalidEvents  = errors.New("invalid webhook event subscription")
	ErrInvalidPayload = errors.New("invalid webhook payload")
	ErrEngineClosed   = errors.New("webhook delivery engine is closed")
)

// IsNotFound reports whether err represents a missing or foreign-owned
// webhook.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
