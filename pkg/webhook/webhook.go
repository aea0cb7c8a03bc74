package webhook

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Config is one user-registered webhook endpoint. The shared secret signs
// every payload delivered to the endpoint; it is never echoed in API
// responses or logs.
type Config struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	URL       string              `json:"url"`
	Secret    string              `json:"-"`
	Events    []notification.Type `json:"events"`
	Active    bool                `json:"active"`
	CreatedAt time.Time           `json:"created_at"`
}

// Subscribed reports whether the config wants deliveries for the event type.
func (c Config) Subscribed(event notification.Type) bool {
	for _, e := range c.Events {
		if e == event {
			return true
		}
	}
	return false
}

// DeliveryStatus is the state of one delivery ledger row.
// Pending is the only non-terminal state.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
)

// Delivery is the running ledger for one (webhook, event) attempt sequence.
// A single row is created per sequence and mutated in place as attempts
// proceed; Payload holds the exact bytes that were signed and transmitted.
type Delivery struct {
	ID            string              `json:"id"`
	WebhookID     string              `json:"webhook_id"`
	EventType     notification.Type   `json:"event_type"`
	Payload       []byte              `json:"payload"`
	Status        DeliveryStatus      `json:"status"`
	ResponseCode  *int                `json:"response_code,omitempty"`
	Attempts      int                 `json:"attempts"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}
