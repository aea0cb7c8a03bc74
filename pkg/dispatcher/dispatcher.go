package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/mailer"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/validator"
)

// SendRequest is the single ingest shape consumed by other platform
// services: one event that should reach one recipient across the channels
// their preferences (or the explicit override) select.
type SendRequest struct {
	UserID   string                 `json:"user_id"`
	Type     notification.Type      `json:"type"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Metadata map[string]string      `json:"metadata,omitempty"`
	Channels []notification.Channel `json:"channels,omitempty"`
}

// Validate rejects malformed requests with field-level detail before any
// persistence occurs.
func (r SendRequest) Validate() error {
	errs := validator.ValidationErrors{}

	if err := validator.Apply(
		validator.Required("user_id", r.UserID),
		validator.Required("title", r.Title),
	); err != nil {
		errs = append(errs, validator.ExtractValidationErrors(err)...)
	}

	if !r.Type.Valid() {
		errs.Add(validator.ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unknown notification type %q", r.Type),
		})
	}
	for _, ch := range r.Channels {
		if !ch.Valid() {
			errs.Add(validator.ValidationError{
				Field:   "channels",
				Message: fmt.Sprintf("unknown channel %q", ch),
			})
		}
	}

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// EventPayload is the JSON body delivered to webhook endpoints. Field order
// is fixed by the struct, so the serialized bytes are canonical for signing.
type EventPayload struct {
	Event    notification.Type `json:"event"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ChannelResolver maps a (user, type, override) triple to a non-empty
// channel set.
type ChannelResolver interface {
	Resolve(ctx context.Context, userID string, t notification.Type, explicit []notification.Channel) []notification.Channel
}

// WebhookDeliverer starts webhook fan-out for one event. It returns once the
// per-endpoint retry loops are initiated; delivery outcomes live in the
// delivery ledger, not in this call's error.
type WebhookDeliverer interface {
	Deliver(ctx context.Context, userID string, eventType notification.Type, payload any) error
}

// Dispatcher is the engine's single entry point: it resolves channels for an
// event, persists one notification record per in-app/email channel, and
// triggers webhook fan-out when the webhook channel is selected.
type Dispatcher struct {
	resolver    ChannelResolver
	storage     notification.Storage
	mail        mailer.Sink
	webhooks    WebhookDeliverer
	broadcaster broadcast.Broadcaster[notification.Record]
	log         *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMailSink sets the email channel sink.
func WithMailSink(sink mailer.Sink) Option {
	return func(d *Dispatcher) {
		d.mail = sink
	}
}

// WithWebhookDeliverer sets the webhook delivery engine.
func WithWebhookDeliverer(deliverer WebhookDeliverer) Option {
	return func(d *Dispatcher) {
		d.webhooks = deliverer
	}
}

// WithBroadcaster publishes created in-app records to the given broadcaster
// so connected clients can stream them live. Best-effort only.
func WithBroadcaster(b broadcast.Broadcaster[notification.Record]) Option {
	return func(d *Dispatcher) {
		d.broadcaster = b
	}
}

// WithLogger sets the logger for the Dispatcher.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a dispatcher. The resolver and notification storage are
// mandatory; email and webhook channels degrade to "record only" and "skip"
// respectively when their collaborators are absent.
func New(resolver ChannelResolver, storage notification.Storage, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver: resolver,
		storage:  storage,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send resolves the event's channels and fans it out. It returns the created
// in-app/email records; webhook deliveries are tracked in the delivery
// ledger instead, since one event may reach many registered endpoints. A
// failure on one channel never prevents delivery to the others, and Send
// succeeds as soon as records are written and webhook delivery is initiated.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) ([]notification.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	channels := d.resolver.Resolve(ctx, req.UserID, req.Type, req.Channels)

	records := make([]notification.Record, 0, len(channels))
	for _, ch := range channels {
		switch ch {
		case notification.ChannelInApp, notification.ChannelEmail:
			rec, err := d.persistRecord(ctx, req, ch)
			if err != nil {
				d.log.ErrorContext(ctx, "channel delivery failed",
					logger.UserID(req.UserID),
					logger.EventType(string(req.Type)),
					logger.Channel(string(ch)),
					logger.Error(err),
				)
				continue
			}
			records = append(records, *rec)

			if ch == notification.ChannelEmail {
				d.sendEmail(ctx, req)
			} else {
				d.publish(ctx, *rec)
			}
		case notification.ChannelWebhook:
			d.deliverWebhooks(ctx, req)
		default:
			d.log.WarnContext(ctx, "skipping unknown channel",
				logger.UserID(req.UserID),
				logger.Channel(string(ch)),
			)
		}
	}

	return records, nil
}

func (d *Dispatcher) persistRecord(ctx context.Context, req SendRequest, ch notification.Channel) (*notification.Record, error) {
	rec := notification.Record{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Type:      req.Type,
		Channel:   ch,
		Title:     req.Title,
		Body:      req.Body,
		Metadata:  req.Metadata,
		CreatedAt: time.Now(),
	}
	if err := d.storage.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// sendEmail invokes the email sink. The sink is a recording stub by default;
// its failure is logged and isolated, never propagated to the event producer.
func (d *Dispatcher) sendEmail(ctx context.Context, req SendRequest) {
	if d.mail == nil {
		return
	}

	// The engine has no user directory; the producer supplies the address
	// via metadata, falling back to the opaque user id.
	to := req.Metadata["email"]
	if to == "" {
		to = req.UserID
	}

	err := d.mail.Send(ctx, mailer.Email{
		To:      to,
		Subject: req.Title,
		Body:    req.Body,
	})
	if err != nil {
		d.log.WarnContext(ctx, "email sink failed, notification record kept",
			logger.UserID(req.UserID),
			logger.EventType(string(req.Type)),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) deliverWebhooks(ctx context.Context, req SendRequest) {
	if d.webhooks == nil {
		return
	}

	payload := EventPayload{
		Event:    req.Type,
		Title:    req.Title,
		Body:     req.Body,
		Metadata: req.Metadata,
	}
	if err := d.webhooks.Deliver(ctx, req.UserID, req.Type, payload); err != nil {
		d.log.ErrorContext(ctx, "webhook fan-out failed to start",
			logger.UserID(req.UserID),
			logger.EventType(string(req.Type)),
			logger.Error(err),
		)
	}
}

func (d *Dispatcher) publish(ctx context.Context, rec notification.Record) {
	if d.broadcaster == nil {
		return
	}
	if err := d.broadcaster.Broadcast(ctx, broadcast.Message[notification.Record]{Data: rec}); err != nil {
		d.log.DebugContext(ctx, "live feed publish failed",
			logger.NotificationID(rec.ID),
			logger.Error(err),
		)
	}
}
