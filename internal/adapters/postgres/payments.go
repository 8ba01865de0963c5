package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

const paymentColumns = `id, merchant_id, order_id, amount, currency, method, vpa,
	card_last4, card_network, status, captured, error_code, error_description,
	created_at, updated_at`

// CreatePaymentWithIdempotency runs the payment-creation transaction. When
// the idempotency key maps to a live record the cached response is returned
// and nothing is written; an expired record is deleted in the same
// transaction. The order is read-locked so its amount and currency can be
// copied onto the payment consistently.
func (s *Store) CreatePaymentWithIdempotency(ctx context.Context, p *domain.Payment, idempotencyKey string) (json.RawMessage, error) {
	var cached json.RawMessage

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if idempotencyKey != "" {
			var response []byte
			var expiresAt time.Time
			err := tx.QueryRow(ctx, `
				SELECT response, expires_at FROM idempotency_records
				WHERE key = $1 AND merchant_id = $2 FOR UPDATE`,
				idempotencyKey, p.MerchantID).Scan(&response, &expiresAt)
			switch {
			case err == nil && time.Now().Before(expiresAt):
				cached = response
				return nil
			case err == nil:
				// Expired records read as absent.
				if _, err := tx.Exec(ctx, `
					DELETE FROM idempotency_records WHERE key = $1 AND merchant_id = $2`,
					idempotencyKey, p.MerchantID); err != nil {
					return fmt.Errorf("delete expired idempotency record: %w", err)
				}
			case !isNoRows(err):
				return fmt.Errorf("read idempotency record: %w", err)
			}
		}

		var amount int64
		var currency string
		err := tx.QueryRow(ctx, `
			SELECT amount, currency FROM orders
			WHERE id = $1 AND merchant_id = $2 FOR SHARE`,
			p.OrderID, p.MerchantID).Scan(&amount, &currency)
		if err != nil {
			if isNoRows(err) {
				return domain.NewNotFound("order")
			}
			return fmt.Errorf("lock order: %w", err)
		}

		// The payment amount is the order amount.
		p.Amount = amount
		p.Currency = currency

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (id, merchant_id, order_id, amount, currency, method,
				vpa, card_last4, card_network, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, p.MerchantID, p.OrderID, p.Amount, p.Currency, p.Method,
			p.VPA, p.CardLast4, p.CardNetwork, p.Status,
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// GetPayment loads a payment in the calling merchant's scope.
func (s *Store) GetPayment(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND merchant_id = $2`,
		id, merchantID)
	return scanPayment(row)
}

// ListPayments returns a page of the merchant's payments, newest first.
func (s *Store) ListPayments(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Payment, int64, error) {
	var total int64
	if err := s.db.GetDB().QueryRow(ctx,
		`SELECT count(*) FROM payments WHERE merchant_id = $1`, merchantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		merchantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

// GetPaymentForProcessing loads a payment with its merchant, unscoped.
// Worker-only: job payloads are trusted internal state, not client input.
func (s *Store) GetPaymentForProcessing(ctx context.Context, id string) (*domain.Payment, *domain.Merchant, error) {
	row := s.db.GetDB().QueryRow(ctx, `
		SELECT p.id, p.merchant_id, p.order_id, p.amount, p.currency, p.method, p.vpa,
			p.card_last4, p.card_network, p.status, p.captured, p.error_code,
			p.error_description, p.created_at, p.updated_at,
			m.id, m.name, m.email, m.api_key, m.api_secret, m.webhook_url,
			m.webhook_secret, m.created_at, m.updated_at
		FROM payments p
		JOIN merchants m ON m.id = p.merchant_id
		WHERE p.id = $1`, id)

	var p domain.Payment
	var m domain.Merchant
	err := row.Scan(
		&p.ID, &p.MerchantID, &p.OrderID, &p.Amount, &p.Currency, &p.Method, &p.VPA,
		&p.CardLast4, &p.CardNetwork, &p.Status, &p.Captured, &p.ErrorCode,
		&p.ErrorDescription, &p.CreatedAt, &p.UpdatedAt,
		&m.ID, &m.Name, &m.Email, &m.APIKey, &m.APISecret, &m.WebhookURL,
		&m.WebhookSecret, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, domain.NewNotFound("payment")
		}
		return nil, nil, fmt.Errorf("get payment for processing: %w", err)
	}
	return &p, &m, nil
}

// MarkPaymentTerminal moves a pending payment to a terminal status. A
// duplicate terminal write is a no-op: the guard on status='pending' leaves
// the stored row untouched, and the stored row is returned either way.
func (s *Store) MarkPaymentTerminal(ctx context.Context, id string, status domain.PaymentStatus, errorCode, errorDescription string) (*domain.Payment, error) {
	_, err := s.db.GetDB().Exec(ctx, `
		UPDATE payments
		SET status = $2, error_code = $3, error_description = $4, updated_at = now()
		WHERE id = $1 AND status = 'pending'`,
		id, status, errorCode, errorDescription)
	if err != nil {
		return nil, fmt.Errorf("mark payment terminal: %w", err)
	}

	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

// SetPaymentCaptured flips captured on a successful, uncaptured payment.
// Zero rows affected means a concurrent capture won; that surfaces as a
// validation error, same as a straight double capture.
func (s *Store) SetPaymentCaptured(ctx context.Context, merchantID uuid.UUID, id string) error {
	tag, err := s.db.GetDB().Exec(ctx, `
		UPDATE payments SET captured = TRUE, updated_at = now()
		WHERE id = $1 AND merchant_id = $2 AND status = 'success' AND captured = FALSE`,
		id, merchantID)
	if err != nil {
		return fmt.Errorf("set payment captured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewBadRequest("payment cannot be captured")
	}
	return nil
}

// ListStuckPendingPayments finds pending payments created before the
// cutoff. The sweeper re-enqueues them to recover from enqueue failures.
func (s *Store) ListStuckPendingPayments(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Payment, error) {
	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE status = 'pending' AND created_at < $1
		 ORDER BY created_at LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stuck pending payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stuck pending payments: %w", err)
	}
	return payments, nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.MerchantID, &p.OrderID, &p.Amount, &p.Currency,
		&p.Method, &p.VPA, &p.CardLast4, &p.CardNetwork, &p.Status, &p.Captured,
		&p.ErrorCode, &p.ErrorDescription, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFound("payment")
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}
