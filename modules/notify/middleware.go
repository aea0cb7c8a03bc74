package notify

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey struct{ name string }

var userIDKey = contextKey{"user_id"}

// UserID extracts the authenticated user id injected by RequireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireServiceToken guards service-to-service endpoints with a bearer
// token, compared in constant time. Requests without the credential are
// rejected before any storage access.
func RequireServiceToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
				respondError(w, http.StatusUnauthorized, "unauthorized", "valid service credential required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser guards user-scoped endpoints. The platform gateway resolves
// end-user identity and forwards it in the configured header; requests
// without it are rejected before any storage access.
func RequireUser(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(header))
			if userID == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "user identity required", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
