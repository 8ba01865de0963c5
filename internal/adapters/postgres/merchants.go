package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

const merchantColumns = `id, name, email, api_key, api_secret, webhook_url, webhook_secret, created_at, updated_at`

// CreateMerchant inserts a merchant row.
func (s *Store) CreateMerchant(ctx context.Context, m *domain.Merchant) error {
	_, err := s.db.GetDB().Exec(ctx, `
		INSERT INTO merchants (id, name, email, api_key, api_secret, webhook_url, webhook_secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Email, m.APIKey, m.APISecret, m.WebhookURL, m.WebhookSecret,
	)
	if err != nil {
		return fmt.Errorf("create merchant: %w", err)
	}
	return nil
}

// GetMerchantByID loads a merchant row.
func (s *Store) GetMerchantByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+merchantColumns+` FROM merchants WHERE id = $1`, id)
	return scanMerchant(row)
}

// GetMerchantByCredentials resolves the merchant matching both the API key
// and secret. Authentication fails as unauthorized, never as not found.
func (s *Store) GetMerchantByCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	row := s.db.GetDB().QueryRow(ctx,
		`SELECT `+merchantColumns+` FROM merchants WHERE api_key = $1 AND api_secret = $2`,
		apiKey, apiSecret)
	m, err := scanMerchant(row)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.NewUnauthorized("invalid api credentials")
		}
		return nil, err
	}
	return m, nil
}

// UpdateMerchantWebhookURL sets the delivery endpoint.
func (s *Store) UpdateMerchantWebhookURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := s.db.GetDB().Exec(ctx,
		`UPDATE merchants SET webhook_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update merchant webhook url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("merchant")
	}
	return nil
}

// UpdateMerchantWebhookSecret rotates the signing secret.
func (s *Store) UpdateMerchantWebhookSecret(ctx context.Context, id uuid.UUID, secret string) error {
	tag, err := s.db.GetDB().Exec(ctx,
		`UPDATE merchants SET webhook_secret = $2, updated_at = now() WHERE id = $1`, id, secret)
	if err != nil {
		return fmt.Errorf("update merchant webhook secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("merchant")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMerchant(row rowScanner) (*domain.Merchant, error) {
	var m domain.Merchant
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.APIKey, &m.APISecret,
		&m.WebhookURL, &m.WebhookSecret, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFound("merchant")
		}
		return nil, fmt.Errorf("scan merchant: %w", err)
	}
	return &m, nil
}
