package preference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
)

func TestResolver_DefaultsWithoutStoredRow(t *testing.T) {
	t.Parallel()

	resolver := preference.NewResolver(preference.NewMemoryStorage())

	tests := []struct {
		eventType notification.Type
		want      []notification.Channel
	}{
		{notification.TypeTaskAssigned, []notification.Channel{notification.ChannelInApp}},
		{notification.TypeTaskStatusChanged, []notification.Channel{notification.ChannelInApp}},
		{notification.TypeCommentAdded, []notification.Channel{notification.ChannelInApp}},
		{notification.TypeProjectInvited, []notification.Channel{notification.ChannelInApp, notification.ChannelEmail}},
		{notification.TypeTaskDueSoon, []notification.Channel{notification.ChannelInApp, notification.ChannelEmail}},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			t.Parallel()

			got := resolver.Resolve(context.Background(), "user-1", tt.eventType, nil)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestResolver_ExplicitOverrideWins(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	svc := preference.NewService(storage)
	require.NoError(t, svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		notification.TypeTaskAssigned: {notification.ChannelEmail},
	}))

	resolver := preference.NewResolver(storage)

	override := []notification.Channel{notification.ChannelWebhook}
	got := resolver.Resolve(context.Background(), "user-1", notification.TypeTaskAssigned, override)
	assert.Equal(t, override, got)
}

func TestResolver_StoredPreferenceApplies(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	svc := preference.NewService(storage)
	require.NoError(t, svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		notification.TypeCommentAdded: {notification.ChannelEmail, notification.ChannelWebhook},
	}))

	resolver := preference.NewResolver(storage)

	got := resolver.Resolve(context.Background(), "user-1", notification.TypeCommentAdded, nil)
	assert.Equal(t, []notification.Channel{notification.ChannelEmail, notification.ChannelWebhook}, got)
}

func TestResolver_CorruptEntryIsolatedPerType(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	require.NoError(t, storage.Set(context.Background(), "user-1", preference.StoredPreferences{
		string(notification.TypeTaskAssigned): []byte(`{{not json`),
		string(notification.TypeCommentAdded): []byte(`["webhook"]`),
	}))

	resolver := preference.NewResolver(storage)

	// The corrupt type falls back to its own default.
	got := resolver.Resolve(context.Background(), "user-1", notification.TypeTaskAssigned, nil)
	assert.Equal(t, []notification.Channel{notification.ChannelInApp}, got)

	// The valid sibling entry is untouched by the corruption.
	got = resolver.Resolve(context.Background(), "user-1", notification.TypeCommentAdded, nil)
	assert.Equal(t, []notification.Channel{notification.ChannelWebhook}, got)
}

func TestResolver_UnknownStoredChannelFallsBack(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	require.NoError(t, storage.Set(context.Background(), "user-1", preference.StoredPreferences{
		string(notification.TypeTaskDueSoon): []byte(`["carrier_pigeon"]`),
	}))

	resolver := preference.NewResolver(storage)

	got := resolver.Resolve(context.Background(), "user-1", notification.TypeTaskDueSoon, nil)
	assert.Equal(t, preference.DefaultChannels(notification.TypeTaskDueSoon), got)
}

func TestResolver_EmptyStoredListFallsBack(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	require.NoError(t, storage.Set(context.Background(), "user-1", preference.StoredPreferences{
		string(notification.TypeProjectInvited): []byte(`[]`),
	}))

	resolver := preference.NewResolver(storage)

	got := resolver.Resolve(context.Background(), "user-1", notification.TypeProjectInvited, nil)
	assert.Equal(t, preference.DefaultChannels(notification.TypeProjectInvited), got)
	assert.NotEmpty(t, got)
}

type failingStorage struct{}

func (failingStorage) Get(ctx context.Context, userID string) (preference.StoredPreferences, error) {
	return nil, errors.New("storage down")
}

func (failingStorage) Set(ctx context.Context, userID string, prefs preference.StoredPreferences) error {
	return errors.New("storage down")
}

func TestResolver_StorageFailureFallsBack(t *testing.T) {
	t.Parallel()

	resolver := preference.NewResolver(failingStorage{})

	got := resolver.Resolve(context.Background(), "user-1", notification.TypeTaskAssigned, nil)
	assert.Equal(t, preference.DefaultChannels(notification.TypeTaskAssigned), got)
}
