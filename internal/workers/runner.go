package workers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/observability"
	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

// Handler processes one job payload. A returned error hands the job back to
// the queue's retry policy.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Runner polls a queue with a pool of goroutines and settles each lease.
type Runner struct {
	queue        ports.Queue
	metrics      *observability.Metrics
	logger       *zap.Logger
	pollInterval time.Duration
	timeouts     resilience.TimeoutConfig
}

// NewRunner creates a runner.
func NewRunner(queue ports.Queue, metrics *observability.Metrics, logger *zap.Logger, pollInterval time.Duration, timeouts resilience.TimeoutConfig) *Runner {
	return &Runner{
		queue:        queue,
		metrics:      metrics,
		logger:       logger,
		pollInterval: pollInterval,
		timeouts:     timeouts,
	}
}

// Run consumes queueName with concurrency goroutines until ctx ends. It
// blocks until every consumer has drained.
func (r *Runner) Run(ctx context.Context, queueName string, concurrency int, h Handler) {
	if concurrency < 1 {
		concurrency = 1
	}
	r.logger.Info("worker pool starting",
		zap.String("queue", queueName),
		zap.Int("concurrency", concurrency),
	)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.consume(ctx, queueName, h)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.sampleDepth(ctx, queueName)
	}()

	wg.Wait()
	r.logger.Info("worker pool stopped", zap.String("queue", queueName))
}

func (r *Runner) consume(ctx context.Context, queueName string, h Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := r.queue.Pull(ctx, queueName)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Error("queue pull failed", zap.String("queue", queueName), zap.Error(err))
			r.idle(ctx)
			continue
		}
		if job == nil {
			r.idle(ctx)
			continue
		}

		r.settle(ctx, job, h)
	}
}

// settle runs the handler under the job timeout and terminates the lease.
// The settle calls use a fresh context so a shutdown mid-job still records
// the outcome.
func (r *Runner) settle(ctx context.Context, job *ports.LeasedJob, h Handler) {
	jobCtx, cancel := r.timeouts.JobContext(ctx)
	err := h(jobCtx, job.Payload)
	cancel()

	settleCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err != nil {
		r.metrics.ObserveJob(job.Queue, "failed")
		r.logger.Error("job handler failed",
			zap.String("queue", job.Queue),
			zap.Int("attempts", job.Attempts),
			zap.Error(err),
		)
		if failErr := r.queue.Fail(settleCtx, job); failErr != nil {
			r.logger.Error("failed to settle job lease", zap.String("queue", job.Queue), zap.Error(failErr))
		}
		return
	}

	r.metrics.ObserveJob(job.Queue, "completed")
	if compErr := r.queue.Complete(settleCtx, job); compErr != nil {
		r.logger.Error("failed to settle job lease", zap.String("queue", job.Queue), zap.Error(compErr))
	}
}

func (r *Runner) idle(ctx context.Context) {
	timer := time.NewTimer(r.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// sampleDepth keeps the waiting-jobs gauge fresh.
func (r *Runner) sampleDepth(ctx context.Context, queueName string) {
	if r.metrics == nil {
		return
	}
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counts, err := r.queue.Counts(ctx, queueName)
			if err != nil {
				continue
			}
			r.metrics.QueueDepth.WithLabelValues(queueName).Set(float64(counts.Waiting))
		}
	}
}
