package identifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Format(t *testing.T) {
	tests := []struct {
		name   string
		mint   func() (string, error)
		prefix string
		length int
	}{
		{"order", NewOrderID, "order_", 16},
		{"payment", NewPaymentID, "pay_", 16},
		{"refund", NewRefundID, "rfnd_", 16},
		{"webhook_secret", NewWebhookSecret, "whsec_", 24},
		{"api_key", NewAPIKey, "key_", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.mint()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(id, tt.prefix), "id %q should carry prefix %q", id, tt.prefix)

			body := strings.TrimPrefix(id, tt.prefix)
			assert.Len(t, body, tt.length)
			for _, c := range body {
				assert.Contains(t, alphabet, string(c))
			}
		})
	}
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewPaymentID()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
