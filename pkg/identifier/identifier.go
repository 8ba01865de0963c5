// Package identifier mints the prefixed opaque IDs used for public-facing
// resources. Merchants and webhook logs use UUIDs instead; everything a
// merchant sees over the API carries one of these prefixes.
package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Prefixes for each resource type.
const (
	OrderPrefix         = "order_"
	PaymentPrefix       = "pay_"
	RefundPrefix        = "rfnd_"
	WebhookSecretPrefix = "whsec_"
	APIKeyPrefix        = "key_"
)

const (
	defaultBodyLen = 16
	secretBodyLen  = 24
)

// New returns prefix + n characters sampled uniformly from [A-Za-z0-9].
// Collisions are astronomically improbable at these lengths; callers that
// insert into a unique column may still retry on a constraint violation.
func New(prefix string, n int) (string, error) {
	body := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range body {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("sample id char: %w", err)
		}
		body[i] = alphabet[idx.Int64()]
	}
	return prefix + string(body), nil
}

// NewOrderID mints an order identifier.
func NewOrderID() (string, error) { return New(OrderPrefix, defaultBodyLen) }

// NewPaymentID mints a payment identifier.
func NewPaymentID() (string, error) { return New(PaymentPrefix, defaultBodyLen) }

// NewRefundID mints a refund identifier.
func NewRefundID() (string, error) { return New(RefundPrefix, defaultBodyLen) }

// NewWebhookSecret mints a merchant webhook signing secret. The longer body
// is the secret's entropy, not an identifier.
func NewWebhookSecret() (string, error) { return New(WebhookSecretPrefix, secretBodyLen) }

// NewAPIKey mints a merchant API key.
func NewAPIKey() (string, error) { return New(APIKeyPrefix, secretBodyLen) }

// NewAPISecret mints a merchant API secret.
func NewAPISecret() (string, error) { return New("", 32) }
