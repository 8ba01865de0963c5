package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutHierarchyOrdering(t *testing.T) {
	for name, tc := range map[string]TimeoutConfig{
		"production": DefaultTimeoutConfig(),
		"test":       TestTimeoutConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Greater(t, tc.HTTPRequest, tc.JobHandler)
			assert.Greater(t, tc.JobHandler, tc.WebhookDelivery)
		})
	}
}

func TestJobContextDeadline(t *testing.T) {
	tc := TestTimeoutConfig()

	ctx, cancel := tc.JobContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(tc.JobHandler), deadline, time.Second)
}
