package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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
	"github.com/kevin07696/payment-gateway/pkg/signature"
)

func testMerchant(url string) *domain.Merchant {
	return &domain.Merchant{
		ID:            uuid.New(),
		WebhookURL:    url,
		WebhookSecret: "whsec_testsecret",
	}
}

func TestDeliver_SuccessFirstAttempt(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get(signature.Header)
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	m := testMerchant(srv.URL)
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	store.On("GetMerchantByID", mock.Anything, m.ID).Return(m, nil)
	store.On("CreateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).Return(nil)

	var updated *domain.WebhookLog
	store.On("UpdateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*domain.WebhookLog) }).
		Return(nil)

	d := NewDeliverer(store, queue, srv.Client(), resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		MerchantID: m.ID,
		Event:      domain.EventPaymentSuccess,
		Data:       json.RawMessage(`{"payment":{"id":"pay_x"}}`),
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.WebhookStatusSuccess, updated.Status)
	assert.Equal(t, 1, updated.Attempts)
	require.NotNil(t, updated.ResponseCode)
	assert.Equal(t, http.StatusOK, *updated.ResponseCode)
	assert.Equal(t, "ok", updated.ResponseBody)
	assert.Nil(t, updated.NextRetryAt)

	// The signature covers the exact bytes that went over the wire.
	assert.True(t, signature.Verify(m.WebhookSecret, gotBody, gotSig))

	var payload domain.WebhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, domain.EventPaymentSuccess, payload.Event)
	assert.NotZero(t, payload.Timestamp)

	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliver_FailureSchedulesRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := testMerchant(srv.URL)
	logID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	store.On("GetMerchantByID", mock.Anything, m.ID).Return(m, nil)
	store.On("GetWebhookLog", mock.Anything, m.ID, logID).
		Return(&domain.WebhookLog{ID: logID, MerchantID: m.ID, Event: domain.EventPaymentFailed, Status: domain.WebhookStatusPending, Attempts: 1}, nil)

	var updated *domain.WebhookLog
	store.On("UpdateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*domain.WebhookLog) }).
		Return(nil)

	// After the second failed attempt the third is next: 10s on the test
	// schedule.
	wantDelay := resilience.TestWebhookSchedule.DelayFor(3)
	var retry domain.WebhookJob
	queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.AnythingOfType("domain.WebhookJob"), wantDelay).
		Run(func(args mock.Arguments) { retry = args.Get(2).(domain.WebhookJob) }).
		Return(nil)

	d := NewDeliverer(store, queue, srv.Client(), resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		LogID:      &logID,
		MerchantID: m.ID,
		Event:      domain.EventPaymentFailed,
		Data:       json.RawMessage(`{"payment":{"id":"pay_x"}}`),
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.WebhookStatusPending, updated.Status)
	assert.Equal(t, 2, updated.Attempts)
	require.NotNil(t, updated.NextRetryAt)
	assert.WithinDuration(t, time.Now().Add(wantDelay), *updated.NextRetryAt, time.Second)
	require.NotNil(t, updated.ResponseCode)
	assert.Equal(t, http.StatusServiceUnavailable, *updated.ResponseCode)

	require.NotNil(t, retry.LogID)
	assert.Equal(t, logID, *retry.LogID)
	queue.AssertExpectations(t)
}

func TestDeliver_ExhaustionMarksFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := testMerchant(srv.URL)
	logID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	store.On("GetMerchantByID", mock.Anything, m.ID).Return(m, nil)
	store.On("GetWebhookLog", mock.Anything, m.ID, logID).
		Return(&domain.WebhookLog{ID: logID, MerchantID: m.ID, Event: domain.EventRefundProcessed, Status: domain.WebhookStatusPending, Attempts: resilience.MaxWebhookAttempts - 1}, nil)

	var updated *domain.WebhookLog
	store.On("UpdateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*domain.WebhookLog) }).
		Return(nil)

	d := NewDeliverer(store, queue, srv.Client(), resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		LogID:      &logID,
		MerchantID: m.ID,
		Event:      domain.EventRefundProcessed,
		Data:       json.RawMessage(`{"refund":{"id":"rfnd_x"}}`),
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.WebhookStatusFailed, updated.Status)
	assert.Equal(t, resilience.MaxWebhookAttempts, updated.Attempts)
	assert.Nil(t, updated.NextRetryAt)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliver_NoWebhookURLIsNoop(t *testing.T) {
	m := &domain.Merchant{ID: uuid.New()}
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	store.On("GetMerchantByID", mock.Anything, m.ID).Return(m, nil)

	d := NewDeliverer(store, queue, nil, resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		MerchantID: m.ID,
		Event:      domain.EventTestWebhook,
		Data:       TestEventData(),
	})

	require.NoError(t, err)
	store.AssertNotCalled(t, "CreateWebhookLog", mock.Anything, mock.Anything)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliver_StoreErrorFailsJobForQueueRetry(t *testing.T) {
	merchantID := uuid.New()
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	// Merchant lookup hits a transient store error before any log exists.
	// The job must fail back to the queue so the event is not lost.
	store.On("GetMerchantByID", mock.Anything, merchantID).
		Return(nil, assert.AnError)

	d := NewDeliverer(store, queue, nil, resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		MerchantID: merchantID,
		Event:      domain.EventPaymentSuccess,
		Data:       json.RawMessage(`{"payment":{"id":"pay_x"}}`),
	})

	require.Error(t, err)
	store.AssertNotCalled(t, "CreateWebhookLog", mock.Anything, mock.Anything)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliver_TransportErrorRecordsCodeZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	m := testMerchant(srv.URL)
	store := new(mocks.Store)
	queue := new(mocks.Queue)

	store.On("GetMerchantByID", mock.Anything, m.ID).Return(m, nil)
	store.On("CreateWebhookLog", mock.Anything, mock.Anything).Return(nil)

	var updated *domain.WebhookLog
	store.On("UpdateWebhookLog", mock.Anything, mock.AnythingOfType("*domain.WebhookLog")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*domain.WebhookLog) }).
		Return(nil)
	queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.Anything, mock.Anything).Return(nil)

	d := NewDeliverer(store, queue, nil, resilience.TestWebhookSchedule, zap.NewNop())

	err := d.Deliver(context.Background(), domain.WebhookJob{
		MerchantID: m.ID,
		Event:      domain.EventTestWebhook,
		Data:       TestEventData(),
	})

	require.NoError(t, err)
	require.NotNil(t, updated)
	require.NotNil(t, updated.ResponseCode)
	assert.Equal(t, 0, *updated.ResponseCode)
	assert.NotEmpty(t, updated.ResponseBody)
	assert.Equal(t, domain.WebhookStatusPending, updated.Status)
}
