package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// WebhookVerifier authenticates provider callbacks. The provider signs the
// raw request body with HMAC-SHA256 over a shared secret and sends the hex
// digest in a header.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// ComputeSignature returns the hex HMAC-SHA256 of body under the shared secret.
func (v *WebhookVerifier) ComputeSignature(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether received matches the signature of body. A missing
// secret or missing header rejects immediately, without computing anything.
func (v *WebhookVerifier) Verify(body []byte, received string) bool {
	if len(v.secret) == 0 || received == "" {
		return false
	}
	expected := v.ComputeSignature(body)
	return hmac.Equal([]byte(expected), []byte(received))
}
