package notify

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// stream pushes the user's freshly created in-app notifications over
// Server-Sent Events. Delivery is best-effort: the feed is a live overlay on
// the durable notification store, not a replacement for it.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		respondError(w, http.StatusNotFound, "not_found", "live feed is not enabled", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	userID := UserID(r.Context())
	sub := h.feed.Subscribe(r.Context())
	defer func() { _ = sub.Close() }()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-sub.Receive(r.Context()):
			if !ok {
				return
			}
			// The broadcaster fans out all users' records; each
			// connection forwards only its own.
			if msg.Data.UserID != userID {
				continue
			}
			payload, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.ErrorContext(r.Context(), "failed to encode feed event",
					logger.NotificationID(msg.Data.ID),
					logger.Error(err),
				)
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
