// Package notification holds the core notification domain model and the
// durable per-user, per-channel notification feed.
//
// A Record is one notification on one channel; an event fanned out to two
// channels produces two independent records. The Service layers pagination
// defaults and read-state operations on top of a Storage, which has in-memory
// and Postgres implementations. All reads and mutations are scoped by user id:
// a valid record id owned by another user is indistinguishable from a missing
// one.
package notification
