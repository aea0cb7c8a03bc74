package dispatcher_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/dispatcher"
	"github.com/dmitrymomot/notifykit/pkg/mailer"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

type fakeDeliverer struct {
	mu    sync.Mutex
	calls []notification.Type
	err   error
}

func (f *fakeDeliverer) Deliver(_ context.Context, _ string, eventType notification.Type, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, eventType)
	return f.err
}

func (f *fakeDeliverer) delivered() []notification.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification.Type(nil), f.calls...)
}

type failingSink struct{}

func (failingSink) Send(context.Context, mailer.Email) error {
	return errors.New("smtp down")
}

func newDispatcher(t *testing.T, opts ...dispatcher.Option) (*dispatcher.Dispatcher, *notification.MemoryStorage) {
	t.Helper()

	storage := notification.NewMemoryStorage()
	resolver := preference.NewResolver(preference.NewMemoryStorage())
	return dispatcher.New(resolver, storage, opts...), storage
}

func TestDispatcher_Send_ExplicitChannels(t *testing.T) {
	t.Parallel()

	d, storage := newDispatcher(t)

	records, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID:   "user-1",
		Type:     notification.TypeTaskAssigned,
		Title:    "New task",
		Body:     "You have been assigned a task",
		Channels: []notification.Channel{notification.ChannelInApp, notification.ChannelEmail},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// One unread record per non-webhook channel.
	unread, err := storage.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	channels := []notification.Channel{records[0].Channel, records[1].Channel}
	assert.ElementsMatch(t, []notification.Channel{notification.ChannelInApp, notification.ChannelEmail}, channels)
	for _, rec := range records {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "user-1", rec.UserID)
		assert.Equal(t, "New task", rec.Title)
		assert.False(t, rec.Read)
		assert.False(t, rec.CreatedAt.IsZero())
	}
}

func TestDispatcher_Send_UsesPreferenceDefaults(t *testing.T) {
	t.Parallel()

	d, storage := newDispatcher(t)

	// task_assigned defaults to in-app only.
	records, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID: "user-1",
		Type:   notification.TypeTaskAssigned,
		Title:  "New task",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, notification.ChannelInApp, records[0].Channel)

	// project_invited defaults to in-app plus email.
	records, err = d.Send(context.Background(), dispatcher.SendRequest{
		UserID: "user-1",
		Type:   notification.TypeProjectInvited,
		Title:  "Project invite",
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	unread, err := storage.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, unread)
}

func TestDispatcher_Send_EmailSinkInvoked(t *testing.T) {
	t.Parallel()

	sent := mailer.NewMemoryStorage()
	sink := mailer.NewRecordingSink(sent)
	d, _ := newDispatcher(t, dispatcher.WithMailSink(sink))

	_, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID:   "user-1",
		Type:     notification.TypeTaskDueSoon,
		Title:    "Task due soon",
		Body:     "Due tomorrow",
		Metadata: map[string]string{"email": "user@example.com"},
		Channels: []notification.Channel{notification.ChannelEmail},
	})
	require.NoError(t, err)

	emails, err := sent.List(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "Task due soon", emails[0].Subject)
	assert.Equal(t, "Due tomorrow", emails[0].Body)
}

func TestDispatcher_Send_EmailSinkFailureIsolated(t *testing.T) {
	t.Parallel()

	d, storage := newDispatcher(t, dispatcher.WithMailSink(failingSink{}))

	records, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID:   "user-1",
		Type:     notification.TypeTaskDueSoon,
		Title:    "Task due soon",
		Channels: []notification.Channel{notification.ChannelEmail},
	})
	require.NoError(t, err)

	// The record survives even though the sink failed.
	require.Len(t, records, 1)
	unread, err := storage.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestDispatcher_Send_WebhookChannel(t *testing.T) {
	t.Parallel()

	deliverer := &fakeDeliverer{}
	d, storage := newDispatcher(t, dispatcher.WithWebhookDeliverer(deliverer))

	records, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID:   "user-1",
		Type:     notification.TypeCommentAdded,
		Title:    "New comment",
		Channels: []notification.Channel{notification.ChannelWebhook},
	})
	require.NoError(t, err)

	// Webhook fan-out produces no notification records.
	assert.Empty(t, records)
	unread, err := storage.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.Equal(t, []notification.Type{notification.TypeCommentAdded}, deliverer.delivered())
}

func TestDispatcher_Send_WebhookFailureIsolated(t *testing.T) {
	t.Parallel()

	deliverer := &fakeDeliverer{err: errors.New("engine closed")}
	d, _ := newDispatcher(t, dispatcher.WithWebhookDeliverer(deliverer))

	records, err := d.Send(context.Background(), dispatcher.SendRequest{
		UserID:   "user-1",
		Type:     notification.TypeCommentAdded,
		Title:    "New comment",
		Channels: []notification.Channel{notification.ChannelInApp, notification.ChannelWebhook},
	})
	require.NoError(t, err)

	// The in-app record still lands when webhook fan-out cannot start.
	require.Len(t, records, 1)
	assert.Equal(t, notification.ChannelInApp, records[0].Channel)
}

func TestDispatcher_Send_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dispatcher.SendRequest
		wantField string
	}{
		{
			name:      "missing user id",
			req:       dispatcher.SendRequest{Type: notification.TypeTaskAssigned, Title: "x"},
			wantField: "user_id",
		},
		{
			name:      "missing title",
			req:       dispatcher.SendRequest{UserID: "user-1", Type: notification.TypeTaskAssigned},
			wantField: "title",
		},
		{
			name:      "unknown type",
			req:       dispatcher.SendRequest{UserID: "user-1", Type: "task_exploded", Title: "x"},
			wantField: "type",
		},
		{
			name: "unknown channel",
			req: dispatcher.SendRequest{
				UserID:   "user-1",
				Type:     notification.TypeTaskAssigned,
				Title:    "x",
				Channels: []notification.Channel{"telegram"},
			},
			wantField: "channels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, storage := newDispatcher(t)

			_, err := d.Send(context.Background(), tt.req)
			require.Error(t, err)
			require.True(t, validator.IsValidationError(err))
			assert.True(t, validator.ExtractValidationErrors(err).Has(tt.wantField))

			// Nothing was persisted.
			unread, countErr := storage.CountUnread(context.Background(), "user-1")
			require.NoError(t, countErr)
			assert.Zero(t, unread)
		})
	}
}
