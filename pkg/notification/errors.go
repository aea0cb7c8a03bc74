package notification

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by another
	// user. Callers must not be able to tell the two cases apart.
	ErrNotFound = errors.New("notification not found")

	// ErrInvalidRecord is returned when a record fails basic shape checks
	// before storage.
	ErrInvalidRecord = errors.New("invalid notification record")
)

// IsNotFound reports whether err represents a missing or foreign-owned record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
