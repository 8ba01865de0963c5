package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/observability"
	"github.com/kevin07696/payment-gateway/pkg/resilience"
	"github.com/kevin07696/payment-gateway/pkg/signature"
)

// RequestTimeout bounds a single delivery attempt.
const RequestTimeout = 5 * time.Second

// Deliverer performs one webhook delivery attempt per job and schedules its
// own retries. Every delivery outcome, including a failed POST, completes
// the job; only an attempt that could not be recorded fails back to the
// queue, whose retry covers the transient store error.
type Deliverer struct {
	store    ports.Store
	queue    ports.Queue
	client   *http.Client
	schedule resilience.WebhookSchedule
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewDeliverer creates a deliverer. A nil client gets the default with the
// attempt timeout applied.
func NewDeliverer(store ports.Store, queue ports.Queue, client *http.Client, schedule resilience.WebhookSchedule, logger *zap.Logger) *Deliverer {
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}
	return &Deliverer{
		store:    store,
		queue:    queue,
		client:   client,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// WithMetrics attaches delivery-attempt instrumentation.
func (d *Deliverer) WithMetrics(m *observability.Metrics) *Deliverer {
	d.metrics = m
	return d
}

// Deliver runs one attempt for the job: resolve or create the log, serialize
// and sign the payload, POST it, record the outcome, and either finish the
// log or schedule the next attempt. A non-nil error means the attempt could
// not be recorded, not that the endpoint rejected the delivery.
func (d *Deliverer) Deliver(ctx context.Context, job domain.WebhookJob) error {
	merchant, err := d.store.GetMerchantByID(ctx, job.MerchantID)
	if err != nil {
		return err
	}
	if !merchant.HasWebhook() {
		d.logger.Warn("merchant has no webhook url, skipping delivery",
			zap.String("merchant_id", job.MerchantID.String()),
			zap.String("event", job.Event),
		)
		return nil
	}

	now := d.now()
	payload := domain.WebhookPayload{
		Event:     job.Event,
		Timestamp: now.Unix(),
		Data:      job.Data,
	}
	// Serialized exactly once; the signature covers these bytes.
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapInternal(err)
	}

	log, err := d.resolveLog(ctx, job, body)
	if err != nil {
		return err
	}

	code, respBody := d.post(ctx, merchant, body)

	log.Payload = body
	log.Attempts++
	log.LastAttemptAt = &now
	log.ResponseCode = &code
	log.ResponseBody = domain.TruncateResponseBody(respBody)

	if code >= 200 && code < 300 {
		log.Status = domain.WebhookStatusSuccess
		log.NextRetryAt = nil
		if err := d.store.UpdateWebhookLog(ctx, log); err != nil {
			return err
		}
		d.metrics.ObserveWebhookAttempt("success")
		d.logger.Info("webhook delivered",
			zap.String("log_id", log.ID.String()),
			zap.String("event", log.Event),
			zap.Int("attempts", log.Attempts),
		)
		return nil
	}

	if log.Attempts >= resilience.MaxWebhookAttempts {
		log.Status = domain.WebhookStatusFailed
		log.NextRetryAt = nil
		if err := d.store.UpdateWebhookLog(ctx, log); err != nil {
			return err
		}
		d.metrics.ObserveWebhookAttempt("exhausted")
		d.logger.Error("webhook delivery exhausted",
			zap.String("log_id", log.ID.String()),
			zap.String("event", log.Event),
			zap.Int("attempts", log.Attempts),
		)
		return nil
	}

	delay := d.schedule.DelayFor(log.Attempts + 1)
	next := now.Add(delay)
	log.Status = domain.WebhookStatusPending
	log.NextRetryAt = &next
	if err := d.store.UpdateWebhookLog(ctx, log); err != nil {
		return err
	}

	retry := domain.WebhookJob{
		LogID:      &log.ID,
		MerchantID: job.MerchantID,
		Event:      job.Event,
		Data:       job.Data,
	}
	if err := d.queue.Enqueue(ctx, ports.QueueWebhookDelivery, retry, delay); err != nil {
		// The log keeps its next_retry_at; the sweeper re-enqueues overdue
		// logs.
		d.logger.Error("failed to schedule webhook retry",
			zap.String("log_id", log.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	d.metrics.ObserveWebhookAttempt("retry_scheduled")
	d.logger.Warn("webhook delivery failed, retry scheduled",
		zap.String("log_id", log.ID.String()),
		zap.String("event", log.Event),
		zap.Int("attempts", log.Attempts),
		zap.Int("response_code", code),
		zap.Duration("delay", delay),
	)
	return nil
}

// resolveLog loads the log named by the job, or creates a fresh pending one
// on first fan-out.
func (d *Deliverer) resolveLog(ctx context.Context, job domain.WebhookJob, body []byte) (*domain.WebhookLog, error) {
	if job.LogID != nil {
		return d.store.GetWebhookLog(ctx, job.MerchantID, *job.LogID)
	}
	log := &domain.WebhookLog{
		ID:         uuid.New(),
		MerchantID: job.MerchantID,
		Event:      job.Event,
		Payload:    body,
		Status:     domain.WebhookStatusPending,
	}
	if err := d.store.CreateWebhookLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// post signs and sends the payload. A transport-level failure reports code 0
// with the error text as the body.
func (d *Deliverer) post(ctx context.Context, merchant *domain.Merchant, body []byte) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, merchant.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.Header, signature.Sign(merchant.WebhookSecret, body))

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err.Error()
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, domain.MaxResponseBodyLen+1))
	return resp.StatusCode, string(respBody)
}
