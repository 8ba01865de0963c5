package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// PutIdempotency stores the cached response for (key, merchant). The unique
// primary key is the sole arbiter under concurrency: when a conflicting
// insert already landed, the other party won and its stored response is
// returned unchanged.
func (s *Store) PutIdempotency(ctx context.Context, rec *domain.IdempotencyRecord) (json.RawMessage, error) {
	tag, err := s.db.GetDB().Exec(ctx, `
		INSERT INTO idempotency_records (key, merchant_id, response, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key, merchant_id) DO NOTHING`,
		rec.Key, rec.MerchantID, rec.Response, rec.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("put idempotency record: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return rec.Response, nil
	}

	var stored []byte
	err = s.db.GetDB().QueryRow(ctx, `
		SELECT response FROM idempotency_records WHERE key = $1 AND merchant_id = $2`,
		rec.Key, rec.MerchantID).Scan(&stored)
	if err != nil {
		return nil, fmt.Errorf("read winning idempotency record: %w", err)
	}
	return stored, nil
}

// DeleteIdempotency removes a record.
func (s *Store) DeleteIdempotency(ctx context.Context, merchantID uuid.UUID, key string) error {
	_, err := s.db.GetDB().Exec(ctx, `
		DELETE FROM idempotency_records WHERE key = $1 AND merchant_id = $2`,
		key, merchantID)
	if err != nil {
		return fmt.Errorf("delete idempotency record: %w", err)
	}
	return nil
}
