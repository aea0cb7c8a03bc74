package preference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

func TestService_Get_DefaultsForNewUser(t *testing.T) {
	t.Parallel()

	svc := preference.NewService(preference.NewMemoryStorage())

	prefs, err := svc.Get(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, preference.Defaults(), prefs)
}

func TestService_Update_Partial(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	svc := preference.NewService(storage)

	require.NoError(t, svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		notification.TypeTaskAssigned: {notification.ChannelEmail},
	}))

	// A second partial update must not disturb the first one.
	require.NoError(t, svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		notification.TypeCommentAdded: {notification.ChannelWebhook},
	}))

	prefs, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []notification.Channel{notification.ChannelEmail}, prefs[notification.TypeTaskAssigned])
	assert.Equal(t, []notification.Channel{notification.ChannelWebhook}, prefs[notification.TypeCommentAdded])
	// Omitted types keep their defaults.
	assert.Equal(t, preference.DefaultChannels(notification.TypeTaskDueSoon), prefs[notification.TypeTaskDueSoon])
}

func TestService_Update_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	svc := preference.NewService(storage)

	err := svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		"task_exploded": {notification.ChannelInApp},
	})
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	// Nothing was persisted.
	stored, err := storage.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestService_Update_RejectsUnknownChannel(t *testing.T) {
	t.Parallel()

	storage := preference.NewMemoryStorage()
	svc := preference.NewService(storage)

	err := svc.Update(context.Background(), "user-1", map[notification.Type][]notification.Channel{
		notification.TypeTaskAssigned: {"telegram"},
	})
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	stored, err := storage.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
