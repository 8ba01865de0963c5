package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is the tenant every other entity is scoped to. Merchants are
// created administratively (cmd/seed), never through the public API.
type Merchant struct {
	ID            uuid.UUID
	Name          string
	Email         string
	APIKey        string
	APISecret     string
	WebhookURL    string
	WebhookSecret string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasWebhook reports whether the merchant has configured a delivery
// endpoint. Event fan-out is skipped entirely without one.
func (m *Merchant) HasWebhook() bool {
	return m.WebhookURL != ""
}
