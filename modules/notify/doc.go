// Package notify exposes the notification engine over HTTP.
//
// One service-to-service ingest endpoint (POST /send, bearer service token)
// accepts platform events; user-scoped endpoints (identity injected by the
// platform gateway) serve the notification feed, preferences, webhook CRUD,
// delivery history, and a live SSE stream. Ownership failures are reported
// as generic not-found so existence never leaks across users.
package notify
