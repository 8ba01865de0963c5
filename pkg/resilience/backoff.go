// Package resilience holds the retry schedules used by the job queue and the
// webhook deliverer.
package resilience

import "time"

// WebhookSchedule maps the attempt number about to be tried to the delay
// before that attempt. Attempt 1 is the initial delivery scheduled on
// fan-out, so its delay is always zero.
type WebhookSchedule []time.Duration

// MaxWebhookAttempts is the delivery ceiling. A log that fails this many
// times is terminal.
const MaxWebhookAttempts = 5

// ProductionWebhookSchedule spaces retries out over hours so a merchant
// outage does not burn attempts back to back.
var ProductionWebhookSchedule = WebhookSchedule{
	0,
	60 * time.Second,
	5 * time.Minute,
	30 * time.Minute,
	2 * time.Hour,
}

// TestWebhookSchedule compresses the same shape into seconds for
// deterministic end-to-end runs.
var TestWebhookSchedule = WebhookSchedule{
	0,
	5 * time.Second,
	10 * time.Second,
	15 * time.Second,
	20 * time.Second,
}

// DelayFor returns the delay before the given 1-indexed attempt. Attempts
// beyond the table are never scheduled because of the ceiling, but clamp to
// the last entry anyway.
func (s WebhookSchedule) DelayFor(attempt int) time.Duration {
	if attempt <= 1 || len(s) == 0 {
		return 0
	}
	if attempt > len(s) {
		attempt = len(s)
	}
	return s[attempt-1]
}

// QueueRetryPolicy is the queue-level retry applied when a worker returns an
// error: exponential backoff doubling from BaseDelay, up to MaxAttempts
// retries after the initial run.
type QueueRetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultQueueRetry retries a failed job up to 3 times at 1s, 2s, 4s.
var DefaultQueueRetry = QueueRetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

// NoQueueRetry drops a job on the first failure. The fallback for queues
// without a configured policy.
var NoQueueRetry = QueueRetryPolicy{MaxAttempts: 0}

// DelayFor returns the backoff before re-running a job that has already
// failed `attempts` times (attempts >= 1).
func (p QueueRetryPolicy) DelayFor(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return p.BaseDelay << (attempts - 1)
}

// ShouldRetry reports whether a job that has failed `attempts` times gets
// another run. A job is retried once per failure until MaxAttempts retries
// have been granted, so it runs MaxAttempts+1 times in total.
func (p QueueRetryPolicy) ShouldRetry(attempts int) bool {
	return attempts <= p.MaxAttempts
}
