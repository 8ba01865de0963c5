package refund

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/testutil/mocks"
)

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(new(mocks.Store), new(mocks.Queue), zap.NewNop())

	for _, amount := range []int64{0, -1} {
		_, err := svc.Create(context.Background(), uuid.New(), "pay_x", CreateRequest{Amount: amount})

		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
		assert.Equal(t, "amount must be at least 1", domain.DescriptionOf(err))
	}
}

func TestCreate_EnqueuesRefundJob(t *testing.T) {
	merchantID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	svc := NewService(store, queue, zap.NewNop())

	var inserted *domain.Refund
	store.On("CreateRefund", mock.Anything, mock.AnythingOfType("*domain.Refund")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(*domain.Refund) }).
		Return(nil)
	store.On("GetRefund", mock.Anything, merchantID, mock.AnythingOfType("string")).
		Return(&domain.Refund{ID: "rfnd_x", Status: domain.RefundStatusPending}, nil)

	var job domain.RefundJob
	queue.On("Enqueue", mock.Anything, ports.QueueRefundProcessing, mock.AnythingOfType("domain.RefundJob"), time.Duration(0)).
		Run(func(args mock.Arguments) { job = args.Get(2).(domain.RefundJob) }).
		Return(nil)

	r, err := svc.Create(context.Background(), merchantID, "pay_x", CreateRequest{Amount: 500, Reason: "customer request"})

	require.NoError(t, err)
	assert.Equal(t, domain.RefundStatusPending, r.Status)

	require.NotNil(t, inserted)
	assert.Equal(t, "pay_x", inserted.PaymentID)
	assert.Equal(t, int64(500), inserted.Amount)
	assert.Equal(t, domain.RefundStatusPending, inserted.Status)
	assert.Equal(t, inserted.ID, job.RefundID)
	queue.AssertExpectations(t)
}

func TestCreate_StoreValidationPassesThrough(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	svc := NewService(store, queue, zap.NewNop())

	storeErr := domain.NewBadRequest("refund amount exceeds available amount 100")
	store.On("CreateRefund", mock.Anything, mock.Anything).Return(storeErr)

	_, err := svc.Create(context.Background(), uuid.New(), "pay_x", CreateRequest{Amount: 500})

	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_EnqueueFailureSurfacesInternal(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	svc := NewService(store, queue, zap.NewNop())

	store.On("CreateRefund", mock.Anything, mock.Anything).Return(nil)
	queue.On("Enqueue", mock.Anything, ports.QueueRefundProcessing, mock.Anything, time.Duration(0)).
		Return(errors.New("redis down"))

	_, err := svc.Create(context.Background(), uuid.New(), "pay_x", CreateRequest{Amount: 500})

	require.Error(t, err)
	assert.Equal(t, domain.ErrorCodeInternal, domain.CodeOf(err))
}
