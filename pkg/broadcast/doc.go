// Package broadcast provides a generic in-process publish/subscribe fan-out.
//
// The dispatcher publishes freshly created in-app notification records
// through a Broadcaster so connected clients can stream them live. Delivery
// is best-effort: a slow subscriber's messages are dropped rather than
// blocking the publisher.
package broadcast
