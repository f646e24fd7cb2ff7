package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the body HMAC when a secret is configured.
const SignatureHeader = "X-Webhook-Signature"

// Sign returns lowercase hex of HMAC-SHA256 over body.
func Sign(secret string, body []byte) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}

// Verify checks a hex signature produced by Sign. Receivers can use it.
func Verify(secret string, body []byte, provided string) bool {
	got, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	m := hmac.New(sha256.New, []byte(secret))
	m.Write(body)
	return hmac.Equal(m.Sum(nil), got)
}
