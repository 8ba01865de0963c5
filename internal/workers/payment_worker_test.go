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
)

func forcedSim(success bool) Simulator {
	return Simulator{TestMode: true, Delay: 0, ForceSuccess: success}
}

func paymentJobPayload(t *testing.T, id string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(domain.PaymentJob{PaymentID: id})
	require.NoError(t, err)
	return raw
}

func TestPaymentWorker_SuccessFansOutWebhook(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	merchant := &domain.Merchant{ID: uuid.New(), WebhookURL: "https://m.example/hooks", WebhookSecret: "whsec_x"}
	pending := &domain.Payment{ID: "pay_x", MerchantID: merchant.ID, Method: domain.MethodUPI, Status: domain.PaymentStatusPending}
	terminal := &domain.Payment{ID: "pay_x", MerchantID: merchant.ID, Method: domain.MethodUPI, Status: domain.PaymentStatusSuccess}

	store.On("GetPaymentForProcessing", mock.Anything, "pay_x").Return(pending, merchant, nil)
	store.On("MarkPaymentTerminal", mock.Anything, "pay_x", domain.PaymentStatusSuccess, "", "").Return(terminal, nil)

	var job domain.WebhookJob
	queue.On("Enqueue", mock.Anything, ports.QueueWebhookDelivery, mock.AnythingOfType("domain.WebhookJob"), time.Duration(0)).
		Run(func(args mock.Arguments) { job = args.Get(2).(domain.WebhookJob) }).
		Return(nil)

	w := NewPaymentWorker(store, queue, forcedSim(true), zap.NewNop())

	require.NoError(t, w.Handle(context.Background(), paymentJobPayload(t, "pay_x")))

	assert.Equal(t, domain.EventPaymentSuccess, job.Event)
	assert.Equal(t, merchant.ID, job.MerchantID)
	assert.Contains(t, string(job.Data), `"pay_x"`)
	store.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestPaymentWorker_ForcedFailureWritesErrorFields(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	merchant := &domain.Merchant{ID: uuid.New()} // no webhook configured
	pending := &domain.Payment{ID: "pay_x", MerchantID: merchant.ID, Method: domain.MethodCard, Status: domain.PaymentStatusPending}
	terminal := &domain.Payment{ID: "pay_x", MerchantID: merchant.ID, Method: domain.MethodCard, Status: domain.PaymentStatusFailed,
		ErrorCode: domain.ErrCodePaymentFailed, ErrorDescription: domain.ErrDescPaymentFailed}

	store.On("GetPaymentForProcessing", mock.Anything, "pay_x").Return(pending, merchant, nil)
	store.On("MarkPaymentTerminal", mock.Anything, "pay_x", domain.PaymentStatusFailed,
		domain.ErrCodePaymentFailed, domain.ErrDescPaymentFailed).Return(terminal, nil)

	w := NewPaymentWorker(store, queue, forcedSim(false), zap.NewNop())

	require.NoError(t, w.Handle(context.Background(), paymentJobPayload(t, "pay_x")))

	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestPaymentWorker_TerminalPaymentIsNoop(t *testing.T) {
	store := new(mocks.Store)
	queue := new(mocks.Queue)
	merchant := &domain.Merchant{ID: uuid.New(), WebhookURL: "https://m.example/hooks"}
	done := &domain.Payment{ID: "pay_x", MerchantID: merchant.ID, Status: domain.PaymentStatusSuccess}

	store.On("GetPaymentForProcessing", mock.Anything, "pay_x").Return(done, merchant, nil)

	w := NewPaymentWorker(store, queue, forcedSim(true), zap.NewNop())

	require.NoError(t, w.Handle(context.Background(), paymentJobPayload(t, "pay_x")))

	store.AssertNotCalled(t, "MarkPaymentTerminal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentWorker_MissingPaymentDoesNotRetry(t *testing.T) {
	store := new(mocks.Store)
	store.On("GetPaymentForProcessing", mock.Anything, "pay_gone").
		Return(nil, nil, domain.NewNotFound("payment"))

	w := NewPaymentWorker(store, new(mocks.Queue), forcedSim(true), zap.NewNop())

	assert.NoError(t, w.Handle(context.Background(), paymentJobPayload(t, "pay_gone")))
}

func TestPaymentWorker_MalformedPayloadDoesNotRetry(t *testing.T) {
	w := NewPaymentWorker(new(mocks.Store), new(mocks.Queue), forcedSim(true), zap.NewNop())

	assert.NoError(t, w.Handle(context.Background(), json.RawMessage(`not json`)))
}
