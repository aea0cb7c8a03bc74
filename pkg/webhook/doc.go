// Package webhook implements the user-owned webhook registry and the signed
// delivery engine.
//
// The Registry manages endpoint configs strictly scoped by owner: a valid id
// belonging to another user behaves exactly like a missing id, and delivery
// history for a foreign webhook reads as empty rather than forbidden.
//
// The Engine serializes an event payload once, signs the exact transmitted
// bytes with HMAC-SHA256 under each endpoint's secret, and POSTs them with
// bounded retries. Every (webhook, event) sequence writes a single Delivery
// ledger row that is updated in place per attempt until it reaches a terminal
// state. The X-Webhook-Signature header and HMAC scheme are a durable wire
// contract for third-party consumers.
package webhook
