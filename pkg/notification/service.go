package notification

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is one page of a user's notification feed.
type Page struct {
	Items    []Record `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
}

// Service exposes the user-facing notification feed operations on top of a
// Storage. It owns pagination defaults and clamping; storage implementations
// see only sanitized offsets.
type Service struct {
	storage Storage
	log     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a notification service on top of the given storage.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of the user's feed, newest first. Page defaults to 1
// and pageSize defaults to 20, clamped to [1,100] regardless of caller input.
func (s *Service) List(ctx context.Context, userID string, page, pageSize int) (Page, error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	items, total, err := s.storage.List(ctx, userID, offset, pageSize)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}

// MarkRead flips the read flag on one of the user's own records.
func (s *Service) MarkRead(ctx context.Context, id, userID string) (*Record, error) {
	rec, err := s.storage.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "notification marked read",
		logger.NotificationID(rec.ID),
		logger.UserID(userID),
	)
	return rec, nil
}

// MarkAllRead flips every unread record for the user and returns the count.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	changed, err := s.storage.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.log.DebugContext(ctx, "all notifications marked read",
		logger.UserID(userID),
		slog.Int("changed", changed),
	)
	return changed, nil
}

// UnreadCount returns the number of unread records for the user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.storage.CountUnread(ctx, userID)
}
