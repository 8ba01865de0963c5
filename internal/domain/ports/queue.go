package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Logical queue names.
const (
	QueuePaymentProcessing = "payment-processing"
	QueueRefundProcessing  = "refund-processing"
	QueueWebhookDelivery   = "webhook-delivery"
)

// LeasedJob is a job pulled from a queue under a single-consumer lease. The
// lease must be terminated with Complete or Fail.
type LeasedJob struct {
	Token    string
	Queue    string
	Payload  json.RawMessage
	Attempts int
}

// QueueCounts aggregates a queue's job totals for the status endpoint. The
// numbers are derived from the backend, never from in-process state.
type QueueCounts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Queue is a durable named job queue with delayed enqueue and per-job
// leases.
type Queue interface {
	// Enqueue appends a job that becomes visible after delay.
	Enqueue(ctx context.Context, queue string, payload any, delay time.Duration) error

	// Pull leases the next visible job, or returns nil when the queue is
	// empty. No two consumers observe the same job concurrently.
	Pull(ctx context.Context, queue string) (*LeasedJob, error)

	// Complete terminates a lease successfully.
	Complete(ctx context.Context, job *LeasedJob) error

	// Fail terminates a lease unsuccessfully; the queue's retry policy
	// decides whether the job is re-scheduled or dead-lettered.
	Fail(ctx context.Context, job *LeasedJob) error

	// Counts reports aggregate totals for a queue.
	Counts(ctx context.Context, queue string) (QueueCounts, error)
}
