package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Wire contract headers. Third-party consumers hardcode verification against
// these names and the HMAC scheme below; changing either requires a version
// bump of the webhook contract.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"
)

// Sign computes the hex-encoded HMAC-SHA256 digest of payload under secret.
// The digest is computed over the exact bytes transmitted, so callers must
// sign after final serialization. The result is always 64 hex characters.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a received signature against the payload bytes using
// a constant-time comparison. Intended for webhook consumers validating
// deliveries from this engine.
func VerifySignature(secret string, payload []byte, signature string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
