package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

const webhookLogColumns = `id, merchant_id, event, payload, status, attempts,
	last_attempt_at, next_retry_at, response_code, response_body, created_at, updated_at`

// CreateWebhookLog inserts a delivery log row.
func (s *Store) CreateWebhookLog(ctx context.Context, w *domain.WebhookLog) error {
	_, err := s.db.GetDB().Exec(ctx, `
		INSERT INTO webhook_logs (id, merchant_id, event, payload, status, attempts,
			last_attempt_at, next_retry_at, response_code, response_body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.MerchantID, w.Event, w.Payload, w.Status, w.Attempts,
		w.LastAttemptAt, w.NextRetryAt, w.ResponseCode, w.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("create webhook log: %w", err)
	}
	return nil
}

// GetWebhookLog loads a log in the calling merchant's scope.
func (s *Store) GetWebhookLog(ctx context.Context, merchantID, id uuid.UUID) (*domain.WebhookLog, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+webhookLogColumns+` FROM webhook_logs WHERE id = $1 AND merchant_id = $2`,
		id, merchantID)
	return scanWebhookLog(row)
}

// UpdateWebhookLog writes back the mutable delivery fields.
func (s *Store) UpdateWebhookLog(ctx context.Context, w *domain.WebhookLog) error {
	tag, err := s.db.GetDB().Exec(ctx, `
		UPDATE webhook_logs
		SET payload = $2, status = $3, attempts = $4, last_attempt_at = $5,
			next_retry_at = $6, response_code = $7, response_body = $8,
			updated_at = now()
		WHERE id = $1`,
		w.ID, w.Payload, w.Status, w.Attempts, w.LastAttemptAt, w.NextRetryAt,
		w.ResponseCode, w.ResponseBody)
	if err != nil {
		return fmt.Errorf("update webhook log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("webhook log")
	}
	return nil
}

// ListWebhookLogs returns a page of the merchant's logs, newest first.
func (s *Store) ListWebhookLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.WebhookLog, int64, error) {
	var total int64
	if err := s.db.GetDB().QueryRow(ctx,
		`SELECT count(*) FROM webhook_logs WHERE merchant_id = $1`, merchantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count webhook logs: %w", err)
	}

	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+webhookLogColumns+` FROM webhook_logs
		 WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		merchantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.WebhookLog{}
	for rows.Next() {
		w, err := scanWebhookLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	return logs, total, nil
}

// ListOverdueWebhookLogs finds pending logs whose scheduled retry elapsed
// before the cutoff. Used by the crash-recovery sweep; served by the
// (status, next_retry_at) index.
func (s *Store) ListOverdueWebhookLogs(ctx context.Context, cutoff time.Time, limit int) ([]*domain.WebhookLog, error) {
	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+webhookLogColumns+` FROM webhook_logs
		 WHERE status = 'pending' AND next_retry_at IS NOT NULL AND next_retry_at < $1
		 ORDER BY next_retry_at LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue webhook logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.WebhookLog{}
	for rows.Next() {
		w, err := scanWebhookLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list overdue webhook logs: %w", err)
	}
	return logs, nil
}

func scanWebhookLog(row rowScanner) (*domain.WebhookLog, error) {
	var w domain.WebhookLog
	err := row.Scan(&w.ID, &w.MerchantID, &w.Event, &w.Payload, &w.Status,
		&w.Attempts, &w.LastAttemptAt, &w.NextRetryAt, &w.ResponseCode,
		&w.ResponseBody, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFound("webhook log")
		}
		return nil, fmt.Errorf("scan webhook log: %w", err)
	}
	return &w, nil
}
