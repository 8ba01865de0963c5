package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is terminal at "created" in this service; orders are never
// mutated by workers.
type OrderStatus string

const OrderStatusCreated OrderStatus = "created"

// DefaultCurrency applies when an order omits currency. Amounts are integer
// minor units (paise for INR).
const DefaultCurrency = "INR"

// Order is a merchant's intent to collect a payment.
type Order struct {
	ID         string
	MerchantID uuid.UUID
	Amount     int64
	Currency   string
	Receipt    string
	Status     OrderStatus
	CreatedAt  time.Time
}
