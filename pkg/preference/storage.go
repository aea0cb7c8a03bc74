package preference

import (
	"context"
	"encoding/json"
)

// StoredPreferences is the raw persisted shape of one user's preferences:
// notification type name mapped to the raw JSON channel list. Values stay
// unparsed at the storage boundary so that one corrupt entry can be isolated
// and substituted with that type's default instead of failing the whole read.
type StoredPreferences map[string]json.RawMessage

// Storage persists per-user preference rows. A missing row is reported as an
// empty StoredPreferences and a nil error, never as a failure.
type Storage interface {
	// Get returns the stored preference row for the user, or an empty map
	// when no row exists.
	Get(ctx context.Context, userID string) (StoredPreferences, error)

	// Set replaces the stored preference row for the user.
	Set(ctx context.Context, userID string, prefs StoredPreferences) error
}
