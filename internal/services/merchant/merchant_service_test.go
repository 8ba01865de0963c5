package merchant

import (
	"context"
	"encoding/json"
	"strings"
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

func TestRegenerateWebhookSecret(t *testing.T) {
	merchantID := uuid.New()
	store := new(mocks.Store)
	svc := NewService(store, new(mocks.Queue), zap.NewNop())

	var stored string
	store.On("UpdateMerchantWebhookSecret", mock.Anything, merchantID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { stored = args.Get(2).(string) }).
		Return(nil)

	secret, err := svc.RegenerateWebhookSecret(context.Background(), merchantID)

	require.NoError(t, err)
	assert.Equal(t, stored, secret)
	assert.True(t, strings.HasPrefix(secret, "whsec_"))
}

func TestSendTestWebhook(t *testing.T) {
	merchantID := uuid.New()

	t.Run("no webhook url configured", func(t *testing.T) {
		store := new(mocks.Store)
		queue := new(mocks.Queue)
		svc := NewService(store, queue, zap.NewNop())
		store.On("GetMerchantByID", mock.Anything, merchantID).
			Return(&domain.Merchant{ID: merchantID}, nil)

		err := svc.SendTestWebhook(context.Background(), merchantID)

		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
		queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enqueues test event", func(t *testing.T) {
		store := new(mocks.Store)
		queue := new(mocks.Queue)
		svc := NewService(store, queue, zap.NewNop())
		store.On("GetMerchantByID", mock.Anything, merchantID).
			Return(&domain.Merchant{ID: merchantID, WebhookURL: "https://merchant.example/hooks", WebhookSecret: "whsec_x"}, nil)

		var job domain.WebhookJob
		queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.AnythingOfType("domain.WebhookJob"), time.Duration(0)).
			Run(func(args mock.Arguments) { job = args.Get(2).(domain.WebhookJob) }).
			Return(nil)

		require.NoError(t, svc.SendTestWebhook(context.Background(), merchantID))

		assert.Nil(t, job.LogID)
		assert.Equal(t, domain.EventTestWebhook, job.Event)
		assert.JSONEq(t, `{"message":"This is a test webhook"}`, string(job.Data))
	})
}

func TestRetryWebhook(t *testing.T) {
	merchantID := uuid.New()
	logID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	svc := NewService(store, queue, zap.NewNop())

	payload, err := json.Marshal(domain.WebhookPayload{
		Event:     domain.EventPaymentSuccess,
		Timestamp: 1700000000,
		Data:      json.RawMessage(`{"payment":{"id":"pay_x"}}`),
	})
	require.NoError(t, err)

	failed := &domain.WebhookLog{
		ID:         logID,
		MerchantID: merchantID,
		Event:      domain.EventPaymentSuccess,
		Payload:    payload,
		Status:     domain.WebhookStatusFailed,
		Attempts:   5,
	}
	store.On("GetWebhookLog", mock.Anything, merchantID, logID).Return(failed, nil)

	var updated *domain.WebhookLog
	store.On("UpdateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*domain.WebhookLog) }).
		Return(nil)

	var job domain.WebhookJob
	queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.AnythingOfType("domain.WebhookJob"), time.Duration(0)).
		Run(func(args mock.Arguments) { job = args.Get(2).(domain.WebhookJob) }).
		Return(nil)

	log, err := svc.RetryWebhook(context.Background(), merchantID, logID)

	require.NoError(t, err)
	assert.Equal(t, domain.WebhookStatusPending, log.Status)
	assert.Zero(t, log.Attempts)
	assert.Nil(t, log.NextRetryAt)
	require.NotNil(t, updated)
	assert.Zero(t, updated.Attempts)

	require.NotNil(t, job.LogID)
	assert.Equal(t, logID, *job.LogID)
	assert.Equal(t, domain.EventPaymentSuccess, job.Event)
	assert.JSONEq(t, `{"payment":{"id":"pay_x"}}`, string(job.Data))
}

func TestRetryWebhook_CrossMerchantIsNotFound(t *testing.T) {
	merchantID := uuid.New()
	logID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	svc := NewService(store, queue, zap.NewNop())

	store.On("GetWebhookLog", mock.Anything, merchantID, logID).
		Return(nil, domain.NewNotFound("webhook log"))

	_, err := svc.RetryWebhook(context.Background(), merchantID, logID)

	require.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
