package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Sleep suspends one retry loop for the given duration. Tests inject a fake
// to drive the backoff schedule without wall-clock delays.
type Sleep func(ctx context.Context, d time.Duration)

// Engine delivers signed event payloads to every active, subscribed webhook
// of a user. Each webhook gets its own retry loop: loops run concurrently and
// one endpoint's backoff never delays another's delivery. Once triggered, a
// loop runs to a terminal state (delivered or failed) regardless of caller
// cancellation.
type Engine struct {
	storage     Storage
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
	backoff     BackoffStrategy
	sleep       Sleep
	log         *slog.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHTTPClient sets a custom HTTP client.
// Useful for custom transports, proxies, or testing.
func WithHTTPClient(client *http.Client) EngineOption {
	return func(e *Engine) {
		if client != nil {
			e.client = client
		}
	}
}

// WithTimeout bounds each individual HTTP attempt. Default is 10 seconds.
func WithTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxAttempts caps the total attempts per delivery sequence. Default is 3.
func WithMaxAttempts(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithBackoff sets the backoff strategy between attempts.
func WithBackoff(strategy BackoffStrategy) EngineOption {
	return func(e *Engine) {
		if strategy != nil {
			e.backoff = strategy
		}
	}
}

// WithSleep injects the sleep function used between attempts.
func WithSleep(sleep Sleep) EngineOption {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithEngineLogger sets the logger for the Engine.
func WithEngineLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates a delivery engine on top of the given storage.
func NewEngine(storage Storage, opts ...EngineOption) *Engine {
	e := &Engine{
		storage:     storage,
		timeout:     10 * time.Second,
		maxAttempts: 3,
		backoff:     DefaultBackoffStrategy(),
		log:         slog.Default(),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	e.sleep = func(ctx context.Context, d time.Duration) {
		select {
		case <-ctx.Done():
		case <-time.After(d):
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deliver fans the event out to every active webhook of the user subscribed
// to eventType; unsubscribed and inactive webhooks are skipped silently. The
// payload is serialized once and the same bytes are signed and transmitted
// for every endpoint. Deliver returns as soon as the per-webhook retry loops
// are started; transport failures stay inside the delivery ledger and are
// never surfaced to the caller.
func (e *Engine) Deliver(ctx context.Context, userID string, eventType notification.Type, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	configs, err := e.storage.ListSubscribed(ctx, userID, eventType)
	if err != nil {
		return fmt.Errorf("failed to select subscribed webhooks: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	e.wg.Add(len(configs))
	e.mu.Unlock()

	// Retry loops outlive the triggering request: cancellation is not part
	// of the delivery contract.
	detached := context.WithoutCancel(ctx)
	for _, cfg := range configs {
		go func(cfg Config) {
			defer e.wg.Done()
			e.run(detached, cfg, eventType, body)
		}(cfg)
	}

	return nil
}

// Close stops accepting new deliveries and waits for in-flight retry loops
// to reach a terminal state, or until ctx expires.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is one webhook's delivery sequence: strictly sequential attempts
// against a single ledger row, with the schedule's wait between attempts and
// never before the first.
func (e *Engine) run(ctx context.Context, cfg Config, eventType notification.Type, body []byte) {
	signature := Sign(cfg.Secret, body)

	d := Delivery{
		ID:        uuid.New().String(),
		WebhookID: cfg.ID,
		EventType: eventType,
		Payload:   body,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if err := e.storage.CreateDelivery(ctx, d); err != nil {
		e.log.ErrorContext(ctx, "failed to create delivery row",
			logger.WebhookID(cfg.ID),
			logger.EventType(string(eventType)),
			logger.Error(err),
		)
		return
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if attempt > 1 {
			e.sleep(ctx, e.backoff.NextInterval(attempt-1))
		}

		code, err := e.post(ctx, cfg.URL, eventType, d.ID, body, signature)

		now := time.Now()
		d.Attempts = attempt
		d.LastAttemptAt = &now
		if code != 0 {
			c := code
			d.ResponseCode = &c
		}

		if err == nil && code >= 200 && code < 300 {
			d.Status = StatusDelivered
			e.updateDelivery(ctx, d)
			e.log.InfoContext(ctx, "webhook delivered",
				logger.WebhookID(cfg.ID),
				logger.DeliveryID(d.ID),
				logger.EventType(string(eventType)),
				logger.Attempt(attempt),
				logger.StatusCode(code),
			)
			return
		}

		// Any non-2xx status and any transport error are treated alike:
		// retryable until the attempt cap is reached.
		if attempt == e.maxAttempts {
			d.Status = StatusFailed
		}
		e.updateDelivery(ctx, d)

		e.log.WarnContext(ctx, "webhook attempt failed",
			logger.WebhookID(cfg.ID),
			logger.DeliveryID(d.ID),
			logger.EventType(string(eventType)),
			logger.Attempt(attempt),
			logger.StatusCode(code),
			logger.Error(err),
		)
	}
}

func (e *Engine) updateDelivery(ctx context.Context, d Delivery) {
	if err := e.storage.UpdateDelivery(ctx, d); err != nil {
		e.log.ErrorContext(ctx, "failed to update delivery row",
			logger.DeliveryID(d.ID),
			logger.Error(err),
		)
	}
}

// post issues a single signed HTTP attempt under the per-attempt timeout.
// It returns the response status code when a response was received, or a
// transport error otherwise.
func (e *Engine) post(ctx context.Context, url string, eventType notification.Type, deliveryID string, body []byte, signature string) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "notifykit-webhook/1.0")
	req.Header.Set(HeaderSignature, signature)
	req.Header.Set(HeaderEvent, string(eventType))
	req.Header.Set(HeaderDelivery, deliveryID)

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused; the response body itself is
	// not part of the contract.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
