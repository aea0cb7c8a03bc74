// Package httpserver wraps net/http with graceful, signal-aware shutdown and
// stop hooks, so the webhook delivery engine can drain in-flight sequences
// before the process exits.
package httpserver
