// Package dispatcher is the notification engine's single entry point.
//
// Given one platform event, Send resolves the recipient's channels, writes
// one notification record per in-app/email channel, invokes the email sink,
// and initiates webhook fan-out without waiting for it to complete. Channel
// failures are isolated per channel.
package dispatcher
