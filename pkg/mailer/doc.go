// Package mailer is the email channel behind the notification dispatcher.
//
// The default Sink is a recording stub that persists a SentEmail row without
// any real transport. When a Postmark server token is configured, the
// PostmarkSink takes its place behind the same interface and keeps writing
// the same ledger.
package mailer
