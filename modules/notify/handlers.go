package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/dispatcher"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

type handlers struct {
	dispatcher    *dispatcher.Dispatcher
	notifications *notification.Service
	preferences   *preference.Service
	webhooks      *webhook.Registry
	feed          broadcast.Broadcaster[notification.Record]
	log           *slog.Logger
}

// send is the service-to-service ingest endpoint.
func (h *handlers) send(w http.ResponseWriter, r *http.Request) {
	var req dispatcher.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	records, err := h.dispatcher.Send(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"notifications": records})
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	result, err := h.notifications.List(r.Context(), UserID(r.Context()), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	rec, err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *handlers) markAllRead(w http.ResponseWriter, r *http.Request) {
	changed, err := h.notifications.MarkAllRead(r.Context(), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"marked_read": changed})
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount(r.Context(), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *handlers) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.preferences.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// updatePreferences applies a partial update: keys absent from the body keep
// their prior (or default) value, which is why the body is a plain map and
// not a fixed struct.
func (h *handlers) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var updates map[notification.Type][]notification.Channel
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	userID := UserID(r.Context())
	if err := h.preferences.Update(r.Context(), userID, updates); err != nil {
		respondServiceError(w, err)
		return
	}

	prefs, err := h.preferences.Get(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// webhookResponse echoes the secret exactly once, on create, so the caller
// can configure endpoint verification. Reads never include it.
type webhookResponse struct {
	webhook.Config
	Secret string `json:"secret,omitempty"`
}

func (h *handlers) createWebhook(w http.ResponseWriter, r *http.Request) {
	var params webhook.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	cfg, err := h.webhooks.Create(r.Context(), UserID(r.Context()), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.log.InfoContext(r.Context(), "webhook registered",
		logger.WebhookID(cfg.ID),
		logger.UserID(cfg.UserID),
	)
	respondJSON(w, http.StatusCreated, webhookResponse{Config: *cfg, Secret: cfg.Secret})
}

func (h *handlers) listWebhooks(w http.ResponseWriter, r *http.Request) {
	configs, err := h.webhooks.List(r.Context(), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"webhooks": configs})
}

func (h *handlers) getWebhook(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.webhooks.Get(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (h *handlers) updateWebhook(w http.ResponseWriter, r *http.Request) {
	var params webhook.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	cfg, err := h.webhooks.Update(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (h *handlers) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.webhooks.Delete(r.Context(), chi.URLParam(r, "id"), UserID(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.webhooks.ListDeliveries(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deliveries": deliveries})
}
