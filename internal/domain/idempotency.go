package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IdempotencyTTL is how long a cached response binds a key to its outcome.
const IdempotencyTTL = 24 * time.Hour

// IdempotencyRecord caches the 201 body of a create so a retried request
// returns a byte-identical response. Identity is the composite
// (key, merchant_id); the unique constraint on that pair is the sole source
// of correctness under concurrent inserts.
type IdempotencyRecord struct {
	Key        string
	MerchantID uuid.UUID
	Response   json.RawMessage
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the record should be treated as absent and
// deleted on read.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
