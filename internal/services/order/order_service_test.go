package order

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/testutil/mocks"
)

func TestCreate(t *testing.T) {
	merchantID := uuid.New()

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc := NewService(new(mocks.Store), zap.NewNop())

		for _, amount := range []int64{0, -100} {
			_, err := svc.Create(context.Background(), merchantID, CreateRequest{Amount: amount})

			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
		}
	})

	t.Run("defaults currency to INR", func(t *testing.T) {
		store := new(mocks.Store)
		svc := NewService(store, zap.NewNop())

		var inserted *domain.Order
		store.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Run(func(args mock.Arguments) { inserted = args.Get(1).(*domain.Order) }).
			Return(nil)
		store.On("GetOrder", mock.Anything, merchantID, mock.AnythingOfType("string")).
			Return(&domain.Order{ID: "order_x"}, nil)

		_, err := svc.Create(context.Background(), merchantID, CreateRequest{Amount: 5000, Receipt: "rcpt-1"})

		require.NoError(t, err)
		require.NotNil(t, inserted)
		assert.Equal(t, domain.DefaultCurrency, inserted.Currency)
		assert.Equal(t, domain.OrderStatusCreated, inserted.Status)
		assert.True(t, strings.HasPrefix(inserted.ID, "order_"))
	})

	t.Run("keeps explicit currency", func(t *testing.T) {
		store := new(mocks.Store)
		svc := NewService(store, zap.NewNop())

		var inserted *domain.Order
		store.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Run(func(args mock.Arguments) { inserted = args.Get(1).(*domain.Order) }).
			Return(nil)
		store.On("GetOrder", mock.Anything, merchantID, mock.AnythingOfType("string")).
			Return(&domain.Order{ID: "order_x"}, nil)

		_, err := svc.Create(context.Background(), merchantID, CreateRequest{Amount: 100, Currency: "USD"})

		require.NoError(t, err)
		assert.Equal(t, "USD", inserted.Currency)
	})
}
