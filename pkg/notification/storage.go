package notification

import "context"

// Storage persists notification records. Implementations must scope every
// read and mutation by user id so that a correct record id with the wrong
// owner behaves exactly like a missing record.
type Storage interface {
	// Create stores a new record.
	Create(ctx context.Context, rec Record) error

	// List returns records for a user ordered newest-first, applying the
	// given offset and limit, together with the full count for that user.
	List(ctx context.Context, userID string, offset, limit int) ([]Record, int, error)

	// MarkRead flips the read flag on the record matching (id AND userID)
	// and returns the updated record, or ErrNotFound.
	MarkRead(ctx context.Context, id, userID string) (*Record, error)

	// MarkAllRead flips every unread record for the user and returns how
	// many were changed. Zero is a valid result, not an error.
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// CountUnread returns the number of unread records for the user.
	CountUnread(ctx context.Context, userID string) (int, error)
}
