package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

const orderColumns = `id, merchant_id, amount, currency, receipt, status, created_at`

// CreateOrder inserts an order row.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.db.GetDB().Exec(ctx, `
		INSERT INTO orders (id, merchant_id, amount, currency, receipt, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.MerchantID, o.Amount, o.Currency, o.Receipt, o.Status,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder loads an order in the calling merchant's scope.
func (s *Store) GetOrder(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Order, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND merchant_id = $2`,
		id, merchantID)
	return scanOrder(row)
}

// ListOrders returns a page of the merchant's orders, newest first, along
// with the total row count in scope.
func (s *Store) ListOrders(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Order, int64, error) {
	var total int64
	if err := s.db.GetDB().QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE merchant_id = $1`, merchantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := s.db.GetDB().Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE merchant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		merchantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.MerchantID, &o.Amount, &o.Currency, &o.Receipt, &o.Status, &o.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFound("order")
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}
