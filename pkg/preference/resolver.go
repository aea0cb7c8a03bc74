package preference

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Resolver maps a (user, notification type) pair to the channels the
// notification should go out on. It never returns an empty set: an explicit
// caller override wins verbatim, otherwise stored preferences apply with
// per-type fallback to the hard-coded defaults.
type Resolver struct {
	storage Storage
	log     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger for the Resolver.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver on top of the given preference storage.
func NewResolver(storage Storage, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the channel set for the given user and type. When explicit
// is non-empty it is used verbatim. Storage failures and corrupt stored
// entries degrade to the type's default; resolution itself never fails.
func (r *Resolver) Resolve(ctx context.Context, userID string, t notification.Type, explicit []notification.Channel) []notification.Channel {
	if len(explicit) > 0 {
		out := make([]notification.Channel, len(explicit))
		copy(out, explicit)
		return out
	}

	stored, err := r.storage.Get(ctx, userID)
	if err != nil {
		r.log.WarnContext(ctx, "preference read failed, falling back to defaults",
			logger.UserID(userID),
			logger.EventType(string(t)),
			logger.Error(err),
		)
		return DefaultChannels(t)
	}

	raw, ok := stored[string(t)]
	if !ok {
		return DefaultChannels(t)
	}

	channels, err := parseChannels(raw)
	if err != nil {
		r.log.WarnContext(ctx, "stored preference entry is corrupt, falling back to default",
			logger.UserID(userID),
			logger.EventType(string(t)),
			logger.Error(err),
		)
		return DefaultChannels(t)
	}
	if len(channels) == 0 {
		// The resolver contract forbids an empty result; a stored empty
		// list behaves like a missing entry.
		return DefaultChannels(t)
	}

	return channels
}

// parseChannels decodes one stored channel list, rejecting unknown channel
// names so a corrupt entry is substituted rather than half-applied.
func parseChannels(raw json.RawMessage) ([]notification.Channel, error) {
	var channels []notification.Channel
	if err := json.Unmarshal(raw, &channels); err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if !ch.Valid() {
			return nil, ErrUnknownChannel
		}
	}
	return channels, nil
}
