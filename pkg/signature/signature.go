// Package signature implements the HMAC-SHA256 scheme used to authenticate
// webhook payloads. The signed bytes are the exact JSON body transmitted on
// the wire; callers must sign the same byte slice they POST.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Header is the HTTP header carrying the payload signature.
const Header = "X-Webhook-Signature"

// Sign returns the lowercase hex encoding of HMAC-SHA256(secret, payload).
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches Sign(secret, payload).
// Comparison is timing-safe.
func Verify(secret string, payload []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
