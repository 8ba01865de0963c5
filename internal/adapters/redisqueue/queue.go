// Package redisqueue implements ports.Queue on Redis. Each named queue is a
// sorted set of job envelopes scored by the instant they become visible,
// plus a hash of leased jobs and counters for terminal outcomes. Delayed
// jobs are just members with a future score.
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

// envelope is the stored form of a job. The id keeps members of the sorted
// set distinct even when payloads collide.
type envelope struct {
	ID         string          `json:"id"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt int64           `json:"enqueued_at"`
}

// pullScript atomically moves the earliest due job from the waiting set
// into the active hash under the caller's lease token. Single-consumer
// semantics follow from the atomicity of the script.
var pullScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
if #due == 0 then
    return false
end
redis.call('ZREM', KEYS[1], due[1])
redis.call('HSET', KEYS[2], ARGV[2], due[1])
return due[1]
`)

// Queue implements ports.Queue.
type Queue struct {
	client   *redis.Client
	policies map[string]resilience.QueueRetryPolicy
	logger   *zap.Logger
}

// New creates a queue adapter. Every queue retries on worker failure. For
// webhook delivery the worker swallows delivery outcomes and only fails a
// job when it could not record the attempt, so the queue-level retry covers
// transient store errors, not rejected deliveries.
func New(client *redis.Client, logger *zap.Logger) *Queue {
	return &Queue{
		client: client,
		logger: logger,
		policies: map[string]resilience.QueueRetryPolicy{
			ports.QueuePaymentProcessing: resilience.DefaultQueueRetry,
			ports.QueueRefundProcessing:  resilience.DefaultQueueRetry,
			ports.QueueWebhookDelivery:   resilience.DefaultQueueRetry,
		},
	}
}

func waitingKey(queue string) string   { return "jobs:" + queue + ":waiting" }
func activeKey(queue string) string    { return "jobs:" + queue + ":active" }
func completedKey(queue string) string { return "jobs:" + queue + ":completed" }
func failedKey(queue string) string    { return "jobs:" + queue + ":failed" }
func deadKey(queue string) string      { return "jobs:" + queue + ":dead" }

// Enqueue appends a job that becomes visible after delay.
func (q *Queue) Enqueue(ctx context.Context, queue string, payload any, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}
	env := envelope{
		ID:         uuid.NewString(),
		Queue:      queue,
		Payload:    body,
		EnqueuedAt: time.Now().UnixMilli(),
	}
	return q.add(ctx, env, delay)
}

func (q *Queue) add(ctx context.Context, env envelope, delay time.Duration) error {
	member, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal job envelope: %w", err)
	}
	score := float64(time.Now().Add(delay).UnixMilli())
	if err := q.client.ZAdd(ctx, waitingKey(env.Queue), redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", env.Queue, err)
	}
	return nil
}

// Pull leases the next visible job, or returns nil when nothing is due.
func (q *Queue) Pull(ctx context.Context, queue string) (*ports.LeasedJob, error) {
	token := uuid.NewString()
	now := time.Now().UnixMilli()

	res, err := pullScript.Run(ctx, q.client,
		[]string{waitingKey(queue), activeKey(queue)}, now, token).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", queue, err)
	}

	raw, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("pull %s: unexpected script result %T", queue, res)
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("decode job envelope: %w", err)
	}

	return &ports.LeasedJob{
		Token:    token,
		Queue:    queue,
		Payload:  env.Payload,
		Attempts: env.Attempts,
	}, nil
}

// Complete terminates a lease successfully.
func (q *Queue) Complete(ctx context.Context, job *ports.LeasedJob) error {
	removed, err := q.client.HDel(ctx, activeKey(job.Queue), job.Token).Result()
	if err != nil {
		return fmt.Errorf("complete %s: %w", job.Queue, err)
	}
	if removed > 0 {
		if err := q.client.Incr(ctx, completedKey(job.Queue)).Err(); err != nil {
			return fmt.Errorf("count completion %s: %w", job.Queue, err)
		}
	}
	return nil
}

// Fail terminates a lease unsuccessfully. The queue's retry policy decides
// between a delayed re-run and the dead list.
func (q *Queue) Fail(ctx context.Context, job *ports.LeasedJob) error {
	raw, err := q.client.HGet(ctx, activeKey(job.Queue), job.Token).Result()
	if err == redis.Nil {
		// Lease already gone; nothing to do.
		return nil
	}
	if err != nil {
		return fmt.Errorf("fail %s: %w", job.Queue, err)
	}
	if err := q.client.HDel(ctx, activeKey(job.Queue), job.Token).Err(); err != nil {
		return fmt.Errorf("fail %s: %w", job.Queue, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("decode job envelope: %w", err)
	}
	env.Attempts++

	policy := q.policyFor(job.Queue)
	if policy.ShouldRetry(env.Attempts) {
		delay := policy.DelayFor(env.Attempts)
		q.logger.Warn("job failed, scheduling retry",
			zap.String("queue", job.Queue),
			zap.Int("attempts", env.Attempts),
			zap.Duration("delay", delay),
		)
		return q.add(ctx, env, delay)
	}

	q.logger.Error("job exhausted retries, dead-lettering",
		zap.String("queue", job.Queue),
		zap.Int("attempts", env.Attempts),
	)
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, deadKey(job.Queue), raw)
	pipe.Incr(ctx, failedKey(job.Queue))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("dead-letter %s: %w", job.Queue, err)
	}
	return nil
}

// Counts reports aggregate totals derived from the Redis backend.
func (q *Queue) Counts(ctx context.Context, queue string) (ports.QueueCounts, error) {
	pipe := q.client.Pipeline()
	waiting := pipe.ZCard(ctx, waitingKey(queue))
	active := pipe.HLen(ctx, activeKey(queue))
	completed := pipe.Get(ctx, completedKey(queue))
	failed := pipe.Get(ctx, failedKey(queue))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return ports.QueueCounts{}, fmt.Errorf("counts %s: %w", queue, err)
	}

	counts := ports.QueueCounts{
		Waiting: waiting.Val(),
		Active:  active.Val(),
	}
	if n, err := completed.Int64(); err == nil {
		counts.Completed = n
	}
	if n, err := failed.Int64(); err == nil {
		counts.Failed = n
	}
	return counts, nil
}

func (q *Queue) policyFor(queue string) resilience.QueueRetryPolicy {
	if p, ok := q.policies[queue]; ok {
		return p
	}
	return resilience.NoQueueRetry
}
