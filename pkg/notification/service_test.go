package notification_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func seedRecords(t *testing.T, storage *notification.MemoryStorage, userID string, n int) []notification.Record {
	t.Helper()

	base := time.Now().Add(-time.Hour)
	records := make([]notification.Record, 0, n)
	for i := range n {
		rec := notification.Record{
			ID:        fmt.Sprintf("notif-%s-%d", userID, i),
			UserID:    userID,
			Type:      notification.TypeTaskAssigned,
			Channel:   notification.ChannelInApp,
			Title:     fmt.Sprintf("Task %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, storage.Create(context.Background(), rec))
		records = append(records, rec)
	}
	return records
}

func TestService_List_Pagination(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	seedRecords(t, storage, "user-1", 5)

	page1, err := svc.List(context.Background(), "user-1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.Equal(t, 5, page1.Total)
	assert.True(t, page1.HasMore)
	// Newest first.
	assert.Equal(t, "notif-user-1-4", page1.Items[0].ID)
	assert.Equal(t, "notif-user-1-3", page1.Items[1].ID)

	page3, err := svc.List(context.Background(), "user-1", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.Equal(t, 5, page3.Total)
	assert.False(t, page3.HasMore)
	assert.Equal(t, "notif-user-1-0", page3.Items[0].ID)
}

func TestService_List_Defaults(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	seedRecords(t, storage, "user-1", 3)

	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{name: "zero values", page: 0, pageSize: 0, wantPage: 1, wantPageSize: 20},
		{name: "negative values", page: -3, pageSize: -1, wantPage: 1, wantPageSize: 20},
		{name: "oversized page size clamped", page: 1, pageSize: 1000, wantPage: 1, wantPageSize: 100},
		{name: "valid values kept", page: 2, pageSize: 50, wantPage: 2, wantPageSize: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := svc.List(context.Background(), "user-1", tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantPageSize, result.PageSize)
		})
	}
}

func TestService_List_EmptyFeed(t *testing.T) {
	t.Parallel()

	svc := notification.NewService(notification.NewMemoryStorage())

	result, err := svc.List(context.Background(), "nobody", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.Total)
	assert.False(t, result.HasMore)
}

func TestService_MarkRead(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	records := seedRecords(t, storage, "user-1", 2)

	updated, err := svc.MarkRead(context.Background(), records[0].ID, "user-1")
	require.NoError(t, err)
	assert.True(t, updated.Read)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_MarkRead_OtherUsersRecord(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	records := seedRecords(t, storage, "owner", 1)

	_, err := svc.MarkRead(context.Background(), records[0].ID, "intruder")
	assert.ErrorIs(t, err, notification.ErrNotFound)

	// The record's read flag must be untouched.
	count, err := svc.UnreadCount(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_MarkAllRead(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	records := seedRecords(t, storage, "user-1", 4)

	// One already read: it must not count towards the changed total.
	_, err := svc.MarkRead(context.Background(), records[0].ID, "user-1")
	require.NoError(t, err)

	changed, err := svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Repeat run changes nothing and is still not an error.
	changed, err = svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestService_MarkAllRead_UserIsolation(t *testing.T) {
	t.Parallel()

	storage := notification.NewMemoryStorage()
	svc := notification.NewService(storage)
	seedRecords(t, storage, "user-1", 2)
	seedRecords(t, storage, "user-2", 3)

	changed, err := svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	count, err := svc.UnreadCount(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
