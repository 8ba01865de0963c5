package resilience

import (
	"context"
	"time"
)

// TimeoutConfig is the timeout hierarchy, outermost to innermost: an HTTP
// request outlives the service call it triggers, a job handler outlives the
// delivery attempt it makes. Each layer finishing before its parent keeps
// timeouts from cascading.
type TimeoutConfig struct {
	HTTPRequest     time.Duration // overall inbound request ceiling
	JobHandler      time.Duration // one worker job run, retries excluded
	WebhookDelivery time.Duration // one outbound delivery attempt
	Sweep           time.Duration // one reconciliation pass
}

// DefaultTimeoutConfig returns production values.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		HTTPRequest:     30 * time.Second,
		JobHandler:      20 * time.Second,
		WebhookDelivery: 5 * time.Second,
		Sweep:           time.Minute,
	}
}

// TestTimeoutConfig compresses the hierarchy for tests.
func TestTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		HTTPRequest:     5 * time.Second,
		JobHandler:      3 * time.Second,
		WebhookDelivery: time.Second,
		Sweep:           5 * time.Second,
	}
}

// JobContext bounds one worker job run.
func (tc TimeoutConfig) JobContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.JobHandler)
}

// SweepContext bounds one reconciliation pass.
func (tc TimeoutConfig) SweepContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Sweep)
}
