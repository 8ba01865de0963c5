package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailableRefundAmount(t *testing.T) {
	payment := &Payment{Amount: 50000}

	tests := []struct {
		name          string
		refundedTotal int64
		expected      int64
	}{
		{"nothing_refunded", 0, 50000},
		{"partially_refunded", 20000, 30000},
		{"fully_refunded", 50000, 0},
		{"over_refunded_clamps_to_zero", 60000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AvailableRefundAmount(payment, tt.refundedTotal))
		})
	}
}

func TestIdempotencyRecord_Expired(t *testing.T) {
	now := time.Now()
	rec := &IdempotencyRecord{ExpiresAt: now.Add(IdempotencyTTL)}

	assert.False(t, rec.Expired(now))
	assert.False(t, rec.Expired(now.Add(IdempotencyTTL-time.Second)))
	assert.True(t, rec.Expired(now.Add(IdempotencyTTL)), "expiry instant reads as absent")
	assert.True(t, rec.Expired(now.Add(IdempotencyTTL+time.Hour)))
}

func TestTruncateResponseBody(t *testing.T) {
	short := "ok"
	assert.Equal(t, short, TruncateResponseBody(short))

	long := make([]byte, MaxResponseBodyLen+500)
	for i := range long {
		long[i] = 'x'
	}
	truncated := TruncateResponseBody(string(long))
	assert.Len(t, truncated, MaxResponseBodyLen)
}
