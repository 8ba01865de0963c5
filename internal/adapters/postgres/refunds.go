package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

const refundColumns = `id, merchant_id, payment_id, amount, reason, status, processed_at, created_at`

// CreateRefund inserts a refund after validating refundability inside one
// transaction. The parent payment is locked FOR UPDATE so concurrent refund
// requests serialize on the available-amount check and cannot over-refund.
func (s *Store) CreateRefund(ctx context.Context, r *domain.Refund) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var payment domain.Payment
		err := tx.QueryRow(ctx, `
			SELECT id, amount, status FROM payments
			WHERE id = $1 AND merchant_id = $2 FOR UPDATE`,
			r.PaymentID, r.MerchantID).Scan(&payment.ID, &payment.Amount, &payment.Status)
		if err != nil {
			if isNoRows(err) {
				return domain.NewNotFound("payment")
			}
			return fmt.Errorf("lock payment: %w", err)
		}

		if !payment.CanRefund() {
			return domain.NewBadRequest("payment is not refundable")
		}

		var refundedTotal int64
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE payment_id = $1`,
			r.PaymentID).Scan(&refundedTotal)
		if err != nil {
			return fmt.Errorf("sum refunds: %w", err)
		}

		available := domain.AvailableRefundAmount(&payment, refundedTotal)
		if r.Amount > available {
			return domain.NewBadRequest(fmt.Sprintf("refund amount exceeds available amount %d", available))
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO refunds (id, merchant_id, payment_id, amount, reason, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, r.MerchantID, r.PaymentID, r.Amount, r.Reason, r.Status)
		if err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}
		return nil
	})
}

// GetRefund loads a refund in the calling merchant's scope.
func (s *Store) GetRefund(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Refund, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+refundColumns+` FROM refunds WHERE id = $1 AND merchant_id = $2`,
		id, merchantID)
	return scanRefund(row)
}

// ListRefunds returns a page of the merchant's refunds, newest first.
func (s *Store) ListRefunds(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Refund, int64, error) {
	var total int64
	if err := s.db.GetDB().QueryRow(ctx,
		`SELECT count(*) FROM refunds WHERE merchant_id = $1`, merchantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count refunds: %w", err)
	}

	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+refundColumns+` FROM refunds
		 WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		merchantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	refunds := []*domain.Refund{}
	for rows.Next() {
		r, err := scanRefund(rows)
		if err != nil {
			return nil, 0, err
		}
		refunds = append(refunds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list refunds: %w", err)
	}
	return refunds, total, nil
}

// GetRefundForProcessing loads refund, parent payment, and merchant in one
// round trip, unscoped. Worker-only.
func (s *Store) GetRefundForProcessing(ctx context.Context, id string) (*domain.Refund, *domain.Payment, *domain.Merchant, error) {
	row := s.db.GetDB().QueryRow(ctx, `
		SELECT r.id, r.merchant_id, r.payment_id, r.amount, r.reason, r.status,
			r.processed_at, r.created_at,
			p.id, p.merchant_id, p.order_id, p.amount, p.currency, p.method, p.vpa,
			p.card_last4, p.card_network, p.status, p.captured, p.error_code,
			p.error_description, p.created_at, p.updated_at,
			m.id, m.name, m.email, m.api_key, m.api_secret, m.webhook_url,
			m.webhook_secret, m.created_at, m.updated_at
		FROM refunds r
		JOIN payments p ON p.id = r.payment_id
		JOIN merchants m ON m.id = r.merchant_id
		WHERE r.id = $1`, id)

	var r domain.Refund
	var p domain.Payment
	var m domain.Merchant
	err := row.Scan(
		&r.ID, &r.MerchantID, &r.PaymentID, &r.Amount, &r.Reason, &r.Status,
		&r.ProcessedAt, &r.CreatedAt,
		&p.ID, &p.MerchantID, &p.OrderID, &p.Amount, &p.Currency, &p.Method, &p.VPA,
		&p.CardLast4, &p.CardNetwork, &p.Status, &p.Captured, &p.ErrorCode,
		&p.ErrorDescription, &p.CreatedAt, &p.UpdatedAt,
		&m.ID, &m.Name, &m.Email, &m.APIKey, &m.APISecret, &m.WebhookURL,
		&m.WebhookSecret, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, nil, domain.NewNotFound("refund")
		}
		return nil, nil, nil, fmt.Errorf("get refund for processing: %w", err)
	}
	return &r, &p, &m, nil
}

// MarkRefundProcessed moves a pending refund to processed. Re-marking is a
// no-op; the stored row is returned either way.
func (s *Store) MarkRefundProcessed(ctx context.Context, id string, at time.Time) (*domain.Refund, error) {
	_, err := s.db.GetDB().Exec(ctx, `
		UPDATE refunds SET status = 'processed', processed_at = $2
		WHERE id = $1 AND status = 'pending'`, id, at)
	if err != nil {
		return nil, fmt.Errorf("mark refund processed: %w", err)
	}

	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+refundColumns+` FROM refunds WHERE id = $1`, id)
	return scanRefund(row)
}

// ListStuckPendingRefunds finds refunds still pending past the cutoff, for
// the reconciliation sweeper.
func (s *Store) ListStuckPendingRefunds(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Refund, error) {
	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+refundColumns+` FROM refunds
		 WHERE status = 'pending' AND created_at < $1
		 ORDER BY created_at ASC LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stuck refunds: %w", err)
	}
	defer rows.Close()

	refunds := []*domain.Refund{}
	for rows.Next() {
		r, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stuck refunds: %w", err)
	}
	return refunds, nil
}

func scanRefund(row rowScanner) (*domain.Refund, error) {
	var r domain.Refund
	err := row.Scan(&r.ID, &r.MerchantID, &r.PaymentID, &r.Amount, &r.Reason,
		&r.Status, &r.ProcessedAt, &r.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFound("refund")
		}
		return nil, fmt.Errorf("scan refund: %w", err)
	}
	return &r, nil
}
