package notification

import "time"

// Type identifies the platform event that triggered a notification.
// The set is closed; anything else is rejected at the edge.
type Type string

const (
	TypeTaskAssigned      Type = "task_assigned"
	TypeTaskStatusChanged Type = "task_status_changed"
	TypeCommentAdded      Type = "comment_added"
	TypeProjectInvited    Type = "project_invited"
	TypeTaskDueSoon       Type = "task_due_soon"
)

// Types lists every valid notification type.
var Types = []Type{
	TypeTaskAssigned,
	TypeTaskStatusChanged,
	TypeCommentAdded,
	TypeProjectInvited,
	TypeTaskDueSoon,
}

// Valid reports whether t belongs to the closed type set.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Channel is a delivery medium for a notification.
type Channel string

const (
	ChannelInApp   Channel = "in_app"
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
)

// Channels lists every valid delivery channel.
var Channels = []Channel{ChannelInApp, ChannelEmail, ChannelWebhook}

// Valid reports whether c is a known delivery channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelWebhook:
		return true
	}
	return false
}

// Record is one delivered notification on one channel. A single event sent to
// two channels produces two independent records, each with its own read flag.
// Records are never deleted by the engine; only the mark-read operations
// mutate them.
type Record struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      Type              `json:"type"`
	Channel   Channel           `json:"channel"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}
