package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/dispatcher"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

// RouterOptions configures the notify module router. Dispatcher,
// Notifications, Preferences and Webhooks are required; Feed and Readiness
// are optional.
type RouterOptions struct {
	Config        Config
	Dispatcher    *dispatcher.Dispatcher
	Notifications *notification.Service
	Preferences   *preference.Service
	Webhooks      *webhook.Registry
	Feed          broadcast.Broadcaster[notification.Record]
	Readiness     []func(context.Context) error
	Logger        *slog.Logger
}

// Router builds the module's chi router, meant to be mounted by the platform
// gateway. The ingest endpoint is guarded by the service token; user-scoped
// endpoints require the gateway-injected user identity.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/notify", notify.Router(notify.RouterOptions{ ... }))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &handlers{
		dispatcher:    opts.Dispatcher,
		notifications: opts.Notifications,
		preferences:   opts.Preferences,
		webhooks:      opts.Webhooks,
		feed:          opts.Feed,
		log:           log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(context.Background(), log, opts.Readiness...))

	r.Group(func(svc chi.Router) {
		svc.Use(RequireServiceToken(opts.Config.ServiceToken))
		svc.Post("/send", h.send)
	})

	r.Group(func(user chi.Router) {
		user.Use(RequireUser(opts.Config.UserHeader))

		user.Route("/notifications", func(n chi.Router) {
			n.Get("/", h.listNotifications)
			n.Get("/unread-count", h.unreadCount)
			n.Get("/stream", h.stream)
			n.Post("/read-all", h.markAllRead)
			n.Post("/{id}/read", h.markRead)
		})

		user.Get("/preferences", h.getPreferences)
		user.Put("/preferences", h.updatePreferences)

		user.Route("/webhooks", func(wh chi.Router) {
			wh.Post("/", h.createWebhook)
			wh.Get("/", h.listWebhooks)
			wh.Get("/{id}", h.getWebhook)
			wh.Patch("/{id}", h.updateWebhook)
			wh.Delete("/{id}", h.deleteWebhook)
			wh.Get("/{id}/deliveries", h.listDeliveries)
		})
	})

	return r
}

// Handler adapts the router to a plain http.Handler for embedding.
func Handler(opts RouterOptions) http.Handler {
	return Router(opts)
}
