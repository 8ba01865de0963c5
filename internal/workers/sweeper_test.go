package workers

import (
	"context"
	"encoding/json"
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
	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

func TestSweep_ReenqueuesStuckWork(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	logID := uuid.New()
	merchantID := uuid.New()
	payload, err := json.Marshal(domain.WebhookPayload{
		Event:     domain.EventPaymentSuccess,
		Timestamp: 1700000000,
		Data:      json.RawMessage(`{"payment":{"id":"pay_x"}}`),
	})
	require.NoError(t, err)

	store.On("ListStuckPendingPayments", mock.Anything, mock.AnythingOfType("time.Time"), sweepBatchSize).
		Return([]*domain.Payment{{ID: "pay_stuck"}}, nil)
	store.On("ListStuckPendingRefunds", mock.Anything, mock.AnythingOfType("time.Time"), sweepBatchSize).
		Return([]*domain.Refund{{ID: "rfnd_stuck"}}, nil)
	store.On("ListOverdueWebhookLogs", mock.Anything, mock.AnythingOfType("time.Time"), sweepBatchSize).
		Return([]*domain.WebhookLog{{ID: logID, MerchantID: merchantID, Event: domain.EventPaymentSuccess, Payload: payload}}, nil)

	queue.On("Enqueue", mock.Anything, ports.QueuePaymentProcessing, domain.PaymentJob{PaymentID: "pay_stuck"}, time.Duration(0)).Return(nil)
	queue.On("Enqueue", mock.Anything, ports.QueueRefundProcessing, domain.RefundJob{RefundID: "rfnd_stuck"}, time.Duration(0)).Return(nil)

	var webhookJob domain.WebhookJob
	queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.AnythingOfType("domain.WebhookJob"), time.Duration(0)).
		Run(func(args mock.Arguments) { webhookJob = args.Get(2).(domain.WebhookJob) }).
		Return(nil)

	s := NewSweeper(store, queue, zap.NewNop(), time.Minute, 2*time.Minute, resilience.TestTimeoutConfig())
	s.sweep(context.Background())

	queue.AssertExpectations(t)
	require.NotNil(t, webhookJob.LogID)
	assert.Equal(t, logID, *webhookJob.LogID)
	assert.JSONEq(t, `{"payment":{"id":"pay_x"}}`, string(webhookJob.Data))
}

func TestSweep_ListFailureSkipsQueue(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	store.On("ListStuckPendingPayments", mock.Anything, mock.Anything, sweepBatchSize).
		Return(nil, assert.AnError)
	store.On("ListStuckPendingRefunds", mock.Anything, mock.Anything, sweepBatchSize).
		Return([]*domain.Refund{}, nil)
	store.On("ListOverdueWebhookLogs", mock.Anything, mock.Anything, sweepBatchSize).
		Return([]*domain.WebhookLog{}, nil)

	s := NewSweeper(store, queue, zap.NewNop(), time.Minute, 2*time.Minute, resilience.TestTimeoutConfig())
	s.sweep(context.Background())

	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
